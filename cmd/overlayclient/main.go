// Overlay client - terminal subtitle viewer.
// Connects to the daemon's subtitle feed, optionally starts a session, and
// renders the live line plus committed entries.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

type feedEvent struct {
	EventType   string `json:"eventType"`
	Status      string `json:"status"`
	Text        string `json:"text"`
	LatencyMs   int64  `json:"latencyMs"`
	EntryID     uint64 `json:"entryId"`
	DisplayTime string `json:"displayTime"`
	Silence     bool   `json:"silence"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "daemon address")
	start := flag.Bool("start", false, "start a session before subscribing")
	flag.Parse()

	if *start {
		resp, err := http.Post(fmt.Sprintf("http://%s/v1/session/start", *addr), "application/json", nil)
		if err != nil {
			log.Fatalf("failed to start session: %v", err)
		}
		resp.Body.Close()
		log.Printf("Session start: %s", resp.Status)
	}

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/v1/subtitles", *addr), nil)
	if err != nil {
		log.Fatalf("failed to connect to subtitle feed: %v", err)
	}
	defer conn.Close()

	log.Println("Connected to subtitle feed")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("feed closed: %v", err)
				return
			}
			var ev feedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				continue
			}
			switch ev.EventType {
			case "translator.live.update":
				fmt.Printf("\r\033[K[%s] %s", ev.Status, ev.Text)
			case "translator.transcript.committed":
				marker := " "
				if ev.Silence {
					marker = "*"
				}
				fmt.Printf("\r\033[K%s %s%s %s\n", ev.DisplayTime, marker, "|", ev.Text)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
	}
	fmt.Println()
}
