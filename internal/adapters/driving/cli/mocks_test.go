package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// setupTestServices installs a builder returning mocks and returns them
// with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		retriever: &mockRetriever{result: domain.QueryResult{
			Answer:  "Dana hidup bulanan di Jepang adalah JPY 195,000.",
			Sources: []domain.Source{{Page: 54, Section: "Dana Hidup Bulanan", Relevance: 0.95}},
		}},
		indexer: &mockIndexer{
			report: domain.IndexReport{Pages: 60, Chunks: 250, Batches: 3, Vectors: 250,
				Stats: domain.IndexStats{Dimension: 768, TotalVectorCount: 250}},
			stats: domain.IndexStats{Dimension: 768, TotalVectorCount: 250,
				Namespaces: map[string]int{"": 200, "v2": 50}},
		},
		settings: &mockSettings{settings: domain.DefaultSettings(), stored: map[string]any{}},
		config:   domain.DefaultSettings(),
	}
	original := builder
	builder = ts.build
	return ts, func() {
		builder = original
		resetFlags(rootCmd)
	}
}

// execute runs rootCmd with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests stay independent.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// --- Mock implementations ---

type testServices struct {
	retriever *mockRetriever
	indexer   *mockIndexer
	settings  *mockSettings
	config    domain.Settings

	builds   []BuildOptions
	closed   int
	buildErr error
}

func (s *testServices) build(_ context.Context, opts BuildOptions) (*Services, error) {
	s.builds = append(s.builds, opts)
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	cfg := s.config
	if opts.Override != nil {
		opts.Override(&cfg)
	}
	s.config = cfg
	svc := &Services{
		Config: cfg,
		Close: func() error {
			s.closed++
			return nil
		},
	}
	// Avoid typed nils in the interfaces.
	if s.settings != nil {
		svc.Settings = s.settings
	}
	if s.retriever != nil {
		svc.Retriever = s.retriever
	}
	if s.indexer != nil {
		svc.Indexer = s.indexer
	}
	return svc, nil
}

type mockRetriever struct {
	result    domain.QueryResult
	err       error
	questions []string
	opts      []driving.RetrieveOptions

	summary    domain.QueryResult
	maxLengths []int
}

func (m *mockRetriever) Retrieve(context.Context, string, driving.RetrieveOptions) ([]domain.RetrievedMatch, error) {
	return nil, m.err
}

func (m *mockRetriever) Context(context.Context, string, driving.RetrieveOptions) (string, error) {
	return "", m.err
}

func (m *mockRetriever) Query(_ context.Context, q string, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	m.questions = append(m.questions, q)
	m.opts = append(m.opts, opts)
	return m.result, m.err
}

func (m *mockRetriever) SearchByTopic(context.Context, string, int) ([]domain.RetrievedMatch, error) {
	return nil, m.err
}

func (m *mockRetriever) Summarise(_ context.Context, topic string, maxLength int, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	m.questions = append(m.questions, topic)
	m.opts = append(m.opts, opts)
	m.maxLengths = append(m.maxLengths, maxLength)
	return m.summary, m.err
}

type mockIndexer struct {
	report  domain.IndexReport
	stats   domain.IndexStats
	err     error
	paths   []string
	opts    []driving.IndexOptions
	deleted []string
}

func (m *mockIndexer) Index(_ context.Context, path string, opts driving.IndexOptions) (domain.IndexReport, error) {
	m.paths = append(m.paths, path)
	m.opts = append(m.opts, opts)
	if opts.Progress != nil {
		opts.Progress(driving.StageLoad, 0, 1)
		opts.Progress(driving.StageEmbed, 1, 1)
		opts.Progress(driving.StageUpsert, 1, 1)
	}
	return m.report, m.err
}

func (m *mockIndexer) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexer) DeleteNamespace(_ context.Context, ns string) error {
	m.deleted = append(m.deleted, ns)
	return m.err
}

type mockSettings struct {
	settings domain.Settings
	stored   map[string]any
	err      error
}

func (m *mockSettings) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettings) Set(key string, value any) error {
	if m.err != nil {
		return m.err
	}
	m.stored[key] = value
	return nil
}
