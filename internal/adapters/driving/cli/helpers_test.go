package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/services"
)

const judgesText = "Sh. Ramesh Kumar, District and Sessions Judge, Court No. 4, Room 201, meet.example/room7, ramesh.k@example.org"

type stubExtractor struct {
	text string
}

func (s stubExtractor) Extract(_ context.Context, _ []byte) (*domain.ExtractedText, error) {
	return &domain.ExtractedText{
		FullText: s.text,
		Pages:    []domain.Page{{PageNumber: 1, Text: s.text}},
	}, nil
}

type testEnv struct {
	docs    *memory.DocumentStore
	rosters *memory.RosterStore
	ingest  *services.IngestService
}

// setupTestServices wires memory-backed services into the commands and
// restores the unconfigured state when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	docs := memory.NewDocumentStore()
	rosters := memory.NewRosterStore()
	gateway := services.NewSearchGateway(docs, nil, domain.DefaultSearchConfig())
	ingest := services.NewIngestService(docs, stubExtractor{text: judgesText}, nil, nil, nil, services.DefaultIngestConfig())

	SetServices(Services{
		Ingest:    ingest,
		Documents: services.NewDocumentService(docs, nil),
		Search:    gateway,
		Judges:    services.NewJudgeService(gateway, docs, rosters, nil),
		Rosters:   services.NewRosterService(rosters),
		Engine:    gateway,
	})
	t.Cleanup(clearServices)

	return &testEnv{docs: docs, rosters: rosters, ingest: ingest}
}

// setupUnconfigured marks services ready with none of them set.
func setupUnconfigured(t *testing.T) {
	t.Helper()
	SetServices(Services{})
	t.Cleanup(clearServices)
}

func clearServices() {
	SetServices(Services{})
	servicesReady = false
}

func (e *testEnv) seed(t *testing.T, complex domain.Complex, zone domain.Zone, category domain.Category, title string) *domain.Document {
	t.Helper()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	doc, err := e.ingest.Ingest(context.Background(), domain.IngestRequest{
		Complex:  complex,
		Zone:     zone,
		Category: category,
		Title:    title,
		DocDate:  &date,
		File:     []byte("%PDF-1.4 roster"),
		FileName: "roster.pdf",
	})
	require.NoError(t, err)
	return doc
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
