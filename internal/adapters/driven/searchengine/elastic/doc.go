// Package elastic implements the primary search engine port on the official
// Elasticsearch 8 client.
//
// Only a bounded part of the query DSL is used: bool queries with term
// filters on the hierarchy fields, a multi_match over title and full text
// for free-text queries, and highlighting of full-text fragments. Requests
// are throttled with a token bucket so bulk ingestion cannot flood the
// cluster.
package elastic
