package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil search service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Search: &mockSearchService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil search service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("search only is valid", func(t *testing.T) {
		ports := &Ports{
			Search: &mockSearchService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Search:   &mockSearchService{},
			Judges:   &mockJudgeService{},
			Document: &mockDocumentService{},
			Roster:   &mockRosterService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

// TestServer_ListsRegisteredTools connects a client over in-memory transports.
func TestServer_ListsRegisteredTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		name  string
		ports *Ports
		want  []string
	}{
		{
			name:  "search only",
			ports: &Ports{Search: &mockSearchService{}},
			want:  []string{"filter_documents", "search_documents"},
		},
		{
			name: "all ports",
			ports: &Ports{
				Search:   &mockSearchService{},
				Judges:   &mockJudgeService{},
				Document: &mockDocumentService{},
				Roster:   &mockRosterService{},
			},
			want: []string{"filter_documents", "search_documents", "search_judges", "search_rosters", "summarize_documents"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.ports)
			require.NoError(t, err)

			serverTransport, clientTransport := mcp.NewInMemoryTransports()
			serverSession, err := server.server.Connect(ctx, serverTransport, nil)
			require.NoError(t, err)
			defer serverSession.Close()

			client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
			session, err := client.Connect(ctx, clientTransport, nil)
			require.NoError(t, err)
			defer session.Close()

			res, err := session.ListTools(ctx, nil)
			require.NoError(t, err)

			names := make([]string, 0, len(res.Tools))
			for _, tool := range res.Tools {
				names = append(names, tool.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestNewServer_WithComplex(t *testing.T) {
	t.Run("normalises the complex", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}}, WithComplex("tis hazari"))
		require.NoError(t, err)
		assert.Equal(t, domain.ComplexTisHazari, server.Complex())
	})

	t.Run("unknown complex is rejected", func(t *testing.T) {
		_, err := NewServer(&Ports{Search: &mockSearchService{}}, WithComplex("GURGAON"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unscoped by default", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)
		assert.Empty(t, server.Complex())
	})
}

func TestServer_ComplexScope(t *testing.T) {
	ctx := context.Background()
	search := &mockSearchService{}
	judges := &mockJudgeService{resp: &domain.JudgeResponse{Engine: domain.EngineFallback}}
	docs := &mockDocumentService{
		document: &domain.Document{ID: "doc-9", Complex: domain.ComplexSaket, Zone: domain.ZoneSouth, Category: domain.CategoryJudgesList},
		groups: []domain.GroupSummary{
			{Complex: domain.ComplexRohini, Zone: domain.ZoneNorth, Category: domain.CategoryBailRoster, Count: 2},
			{Complex: domain.ComplexSaket, Zone: domain.ZoneSouth, Category: domain.CategoryJudgesList, Count: 5},
		},
	}
	server, err := NewServer(&Ports{Search: search, Judges: judges, Document: docs}, WithComplex(domain.ComplexRohini))
	require.NoError(t, err)

	t.Run("search defaults to the scoped complex", func(t *testing.T) {
		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "Sharma"})
		require.NoError(t, err)
		assert.Equal(t, domain.ComplexRohini, search.lastText.Complex)
	})

	t.Run("filter by zone keeps the scope", func(t *testing.T) {
		_, _, err := server.handleFilter(ctx, nil, FilterInput{Zone: "north west"})
		require.NoError(t, err)
		assert.Equal(t, domain.ComplexRohini, search.lastFilter.Complex)
		assert.Equal(t, domain.ZoneNorthWest, search.lastFilter.Zone)
	})

	t.Run("other complex is rejected", func(t *testing.T) {
		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "Sharma", Complex: "saket"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = server.handleJudges(ctx, nil, JudgeInput{Query: "Sharma", Complex: "SAKET"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("judges are scoped", func(t *testing.T) {
		_, _, err := server.handleJudges(ctx, nil, JudgeInput{Query: "Sharma"})
		require.NoError(t, err)
		assert.Equal(t, domain.ComplexRohini, judges.last.Complex)
	})

	t.Run("summary tool and resource are scoped", func(t *testing.T) {
		_, output, err := server.handleSummary(ctx, nil, SummaryInput{})
		require.NoError(t, err)
		require.Len(t, output.Groups, 1)
		assert.Equal(t, "ROHINI", output.Groups[0].Complex)

		result, err := server.handleSummaryResource(ctx, makeReadResourceRequest("lexroster://summary"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"ROHINI"`)
		assert.NotContains(t, result.Contents[0].Text, `"SAKET"`)
	})

	t.Run("documents of other complexes are hidden", func(t *testing.T) {
		_, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("lexroster://documents/doc-9"))
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "getting document")
	})
}

func TestServer_Mount(t *testing.T) {
	server, err := NewServer(&Ports{Search: &mockSearchService{}})
	require.NoError(t, err)

	api := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("api paths reach the api", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Mount(api).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("mcp path reaches the mcp handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Mount(api).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MountPath, nil))
		assert.NotEqual(t, http.StatusTeapot, rec.Code)
	})

	t.Run("without an api only mcp is served", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Mount(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
