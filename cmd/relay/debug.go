package main

import (
	"chat-relay/internal"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

func debugMux(db *badger.DB) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /debug/badger", internal.DebugHandler(db, nil))
	return mux
}
