package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/medseq/checkpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %s not found", name)
	return nil
}

func findIntFlag(cmd *cli.Command, name string) *cli.IntFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findStringFlag(cmd *cli.Command, name string) *cli.StringFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("db is required everywhere and read from env", func(t *testing.T) {
		for _, name := range []string{"import", "search", "train", "resume"} {
			db := findStringFlag(findCommand(t, app, name), "db")
			require.NotNil(t, db, name)
			assert.True(t, db.Required, name)
			assert.Equal(t, []string{"MEDSEQ_DB"}, db.EnvVars, name)
		}
	})

	t.Run("search folds default to 3", func(t *testing.T) {
		folds := findIntFlag(findCommand(t, app, "search"), "folds")
		require.NotNil(t, folds)
		assert.Equal(t, 3, folds.Value)
	})

	t.Run("train defaults", func(t *testing.T) {
		cmd := findCommand(t, app, "train")
		assert.Equal(t, 20, findIntFlag(cmd, "epochs").Value)
		assert.Equal(t, 256, findIntFlag(cmd, "batch-size").Value)
		assert.Equal(t, 30, findIntFlag(cmd, "sequence-length").Value)
		assert.Equal(t, 128, findIntFlag(cmd, "embedding-dim").Value)
		assert.Zero(t, findIntFlag(cmd, "sample").Value)
	})

	t.Run("resume requires checkpoint", func(t *testing.T) {
		err := newApp().Run([]string{"medseq", "resume", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checkpoint")
	})

	t.Run("search requires analogies", func(t *testing.T) {
		err := newApp().Run([]string{"medseq", "search", "--db", t.TempDir(), "--out", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "analogies")
	})
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := newApp().Run([]string{"medseq", "--log-level", "verbose", "resume"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func writeEncounters(t *testing.T, n int) string {
	t.Helper()
	drugs := []string{"heparin", "insulin", "morphine", "ondansetron", "pantoprazole"}
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, `{"id":"enc-%03d","orders":[`, i)
		for j := range 4 {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, `{"drug":%q,"department":%q,"active_meds":[%q]}`,
				drugs[(i+j)%len(drugs)], []string{"icu", "ward"}[i%2], drugs[i%len(drugs)])
		}
		b.WriteString("]}\n")
	}
	path := filepath.Join(t.TempDir(), "encounters.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestImportTrainResume(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	db := filepath.Join(t.TempDir(), "db")
	run := filepath.Join(t.TempDir(), "run")

	err := newApp().Run([]string{"medseq", "--log-level", "error",
		"import", "--db", db, "--input", writeEncounters(t, 30), "--batch-size", "7"})
	require.NoError(t, err)

	err = newApp().Run([]string{"medseq", "--log-level", "error",
		"train", "--db", db, "--out", run,
		"--epochs", "1", "--batch-size", "8", "--sequence-length", "3",
		"--embedding-dim", "4", "--hidden", "4"})
	require.NoError(t, err)

	dir, err := checkpoint.Open(run)
	require.NoError(t, err)
	done, err := dir.LoadDoneEpochs()
	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.True(t, dir.Has(checkpoint.FinalModelFile))

	err = newApp().Run([]string{"medseq", "--log-level", "error",
		"resume", "--db", db, "--checkpoint", run})
	require.NoError(t, err)
}

func TestResume_MissingCheckpoint(t *testing.T) {
	err := newApp().Run([]string{"medseq", "--log-level", "error",
		"resume", "--db", t.TempDir(), "--checkpoint", filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, checkpoint.ErrArtifactMissing)
}
