package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/api"
	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/archive"
	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/discovery"
	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/store"
	roomsync "github.com/Rishabhjain2003/CollaborativeCanvas/internal/sync"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ops := store.NewOperationStore()
	registry := store.NewRoomRegistry()

	apiServer := api.NewServer()
	coordinator := roomsync.NewCoordinator(ops, registry, apiServer)
	apiServer.SetCoordinator(coordinator)

	// Optional sqlite snapshot archive
	archivePath := os.Getenv("ARCHIVE_DB_PATH")
	if archivePath != "" {
		archiveStore, err := archive.NewStore(archivePath)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer archiveStore.Close()
		coordinator.SetArchiver(archiveStore)
		log.Printf("Archiving room snapshots to %s", archivePath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coordinator.Run(ctx)

	if archivePath != "" {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				coordinator.FlushArchive()
			}
		}()
	}

	// Optional mDNS advertisement for LAN clients
	if os.Getenv("MDNS_ADVERTISE") == "1" {
		p, err := strconv.Atoi(port)
		if err != nil {
			log.Fatalf("Invalid PORT %q: %v", port, err)
		}
		mdnsServer, err := discovery.Advertise(p)
		if err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer mdnsServer.Shutdown()
			log.Printf("Advertising canvas server via mDNS on port %d", p)
		}
	}

	// Set up routes
	http.HandleFunc("/ws", apiServer.HandleWebSocket)
	http.HandleFunc("/api/rooms", api.EnableCORS(apiServer.HandleRooms))

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Server starting on port %s", port)
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", port)
	log.Printf("HTTP API endpoints:")
	log.Printf("  GET  /api/rooms - List active rooms")
	log.Printf("  GET  /health - Health check")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
