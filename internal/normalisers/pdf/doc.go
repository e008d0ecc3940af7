// Package pdf turns PDF buffers into paged text using the pdftotext
// utility from poppler. pdftotext emits a form feed between pages, which
// is how page boundaries are recovered.
package pdf
