package main

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/tomz197/fruitcatcher/internal/config"
	"github.com/tomz197/fruitcatcher/internal/leaderboard"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// pageData is what index.html renders.
type pageData struct {
	SSHHost   string
	SSHPort   string
	Rows      []row
	HighScore int
}

type row struct {
	Rank  int
	Name  string
	Score int
}

func newPageData(sshHost, sshPort string, snap leaderboard.Snapshot) pageData {
	data := pageData{SSHHost: sshHost, SSHPort: sshPort, HighScore: snap.HighScore}
	for i, r := range snap.Scores {
		data.Rows = append(data.Rows, row{Rank: i + 1, Name: r.Name, Score: r.Score})
	}
	return data
}

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")

	// Reads the leaderboard the SSH server writes; every request reloads it.
	board := leaderboard.Open(config.GetEnv("FRUIT_DATA_APP", "fruitcatcher"))
	mux := newMux(board, sshHost, sshPort)

	addr := net.JoinHostPort(host, port)
	log.Info("Starting web server", "url", "http://"+addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Server error", "err", err)
	}
}

// newMux serves the landing page and the leaderboard JSON.
func newMux(board *leaderboard.Store, sshHost, sshPort string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := newPageData(sshHost, sshPort, board.Load())
		if err := pageTemplate.Execute(w, data); err != nil {
			log.Error("Failed to render page", "err", err)
		}
	})
	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(board.Load()); err != nil {
			log.Error("Failed to write leaderboard", "err", err)
		}
	})
	return mux
}
