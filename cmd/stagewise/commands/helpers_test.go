// ABOUTME: Shared fakes for command tests
// ABOUTME: Replaces config loading, model client, journal and console with in-memory versions

package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/config"
	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/llm"
	"github.com/harper/stagewise/internal/survey"
)

type fakeGenerator struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.system = systemPrompt
	f.user = userPrompt
	return f.reply, f.err
}

type memKV map[string][]byte

func (m memKV) Set(key string, value []byte) error { m[key] = value; return nil }
func (m memKV) Delete(key string) error            { delete(m, key); return nil }
func (m memKV) Get(key string) ([]byte, error)     { return m[key], nil }
func (m memKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

type scriptedAsker struct {
	replies []string
	asked   []string
}

func (s *scriptedAsker) Ask(ctx context.Context, prompt string) (string, error) {
	s.asked = append(s.asked, prompt)
	if len(s.replies) == 0 {
		return "", nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

type testEnv struct {
	gen       *fakeGenerator
	genBuilds int
	genErr    error
	kv        memKV
	asker     *scriptedAsker
	cfg       *config.Config
}

// setupTestEnv swaps package collaborators for fakes and restores them on cleanup
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gen:   &fakeGenerator{reply: "yes"},
		kv:    memKV{},
		asker: &scriptedAsker{},
		cfg: &config.Config{
			Provider: "openai",
			Locale:   "en",
			Timeout:  time.Second,
		},
	}

	origLoad, origGen, origJournal, origAsker := loadConfig, newGenerator, openJournal, newAsker
	t.Cleanup(func() {
		loadConfig, newGenerator, openJournal, newAsker = origLoad, origGen, origJournal, origAsker
	})

	loadConfig = func() (*config.Config, error) {
		cp := *env.cfg
		return &cp, nil
	}
	newGenerator = func(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
		env.genBuilds++
		if env.genErr != nil {
			return nil, env.genErr
		}
		return env.gen, nil
	}
	openJournal = func(cfg *config.Config) (*journal.Journal, func() error, error) {
		return journal.New(env.kv), func() error { return nil }, nil
	}
	newAsker = func(cmd *cobra.Command) (survey.Asker, func() error, error) {
		return env.asker, func() error { return nil }, nil
	}

	return env
}

// run executes the root command with args and returns stdout and stderr
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
