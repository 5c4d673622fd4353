package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"

	"github.com/agriassist/sparsh/internal/action"
	"github.com/agriassist/sparsh/internal/app"
	"github.com/agriassist/sparsh/internal/gesture"
	"github.com/agriassist/sparsh/internal/server"
	"github.com/agriassist/sparsh/internal/store"
	"github.com/agriassist/sparsh/internal/tray"
)

// config is read from the environment at startup.
type config struct {
	Addr            string `env:"SPARSH_ADDR" envDefault:":8745"`
	DBPath          string `env:"SPARSH_DB"`
	StaticDir       string `env:"SPARSH_STATIC_DIR"`
	Keyboard        bool   `env:"SPARSH_KEYBOARD" envDefault:"false"`
	SpeechCommand   string `env:"SPARSH_SPEECH_CMD"`
	SpeechTimeoutMs int    `env:"SPARSH_SPEECH_TIMEOUT_MS" envDefault:"5000"`
	Tray            bool   `env:"SPARSH_TRAY" envDefault:"false"`
}

func main() {
	fmt.Println("Sparsh - Gesture Navigation for AgriAssist")

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Resolve the database path, defaulting to ~/.sparsh/sparsh.db
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".sparsh")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "sparsh.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Bindings().SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed default bindings: %v", err)
	}

	speaker := action.NewSpeaker(cfg.SpeechCommand, cfg.SpeechTimeoutMs)
	if speaker.Command() == "" {
		log.Println("No speech engine found, spoken feedback disabled")
	} else {
		log.Printf("Using speech engine: %s", speaker.Command())
	}

	application := app.New(app.Config{
		Store:          st,
		Speaker:        speaker,
		EnableKeyboard: cfg.Keyboard,
	})
	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer application.Stop()

	// Find the settings UI directory
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       application,
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)

	if !cfg.Tray {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	// With the tray enabled, the server runs in the background and the
	// tray loop owns the main goroutine.
	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(application.SetEnabled)
	t.OnKeyboard(application.SetKeyboardEnabled)
	t.OnSettings(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	t.OnQuit(func() {
		application.Stop()
	})
	application.OnTrace(func(ev gesture.TraceEvent) {
		if ev.Type == gesture.TraceGesture {
			t.SetLastGesture(string(ev.Gesture))
		}
	})
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.sparsh/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".sparsh", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
