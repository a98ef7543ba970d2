package moderation

import (
	"chat-relay/repositories"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// Loading a large dictionary from Badger and building the automaton must stay fast enough for startup.
func Test_Moderation_Startup_From_Badger(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	wordCount := 20_000
	words := make([]string, 0, wordCount)
	for i := range wordCount {
		words = append(words, fmt.Sprintf("word%dx", i))
	}
	words = append(words, "badger")

	start := time.Now()
	req.NoError(repositories.AddCensoredWords(db, words))
	loaded, err := repositories.LoadCensoredWords(db)
	req.NoError(err)
	req.Len(loaded, wordCount+1)

	mod, err := NewModerator(loaded, replacementChar, log)
	req.NoError(err)
	t.Logf("loaded and built %d words in %v", len(loaded), time.Since(start))

	content, found := mod.Censor("a badger")
	req.Equal("a ******", content)
	req.Equal([]string{"badger"}, found)
}

func BenchmarkModerator_Censor(b *testing.B) {
	log := logs.GetLoggerFromLevel(slog.LevelError)
	mod, err := NewModerator([]string{"badger", "snake", "mushroom"}, replacementChar, log)
	if err != nil {
		b.Fatal(err)
	}
	text := "The quick brown fox saw a b.4.d.g.e.r next to a mushroom and a snake"
	b.ResetTimer()
	for range b.N {
		mod.Censor(text)
	}
}
