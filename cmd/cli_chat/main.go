package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/chat"
	"medrag/internal/config"
	"medrag/internal/domain"
	"medrag/internal/ingest"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	client := backend.NewHTTPClient(cfg.RAGAPIBaseURL, logger)
	conv := chat.NewConversation(logger, client)
	ingestSvc := ingest.NewService(logger, client)

	fmt.Println("===== Medical Research RAG =====")
	fmt.Printf("Backend: %s\n", cfg.RAGAPIBaseURL)
	fmt.Println("Ask evidence-based questions about medical research.")
	fmt.Println("Commands: /new /history /select N /clear /upload <path> [title] /exit")

	for {
		fmt.Print("\nYou > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if runCommand(ctx, line, conv, ingestSvc) {
				return
			}
			continue
		}

		outcome := conv.Submit(ctx, line)
		if outcome == chat.OutcomeIgnored {
			fmt.Println("(ignored: a query is already in flight)")
			continue
		}
		printLastAnswer(conv)
	}
}

// runCommand ejecuta un comando del menú; devuelve true si hay que salir.
func runCommand(ctx context.Context, line string, conv *chat.Conversation, ingestSvc *ingest.Service) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		fmt.Println("Bye.")
		return true
	case "/new":
		conv.NewChat()
		fmt.Println("Started a new research query.")
	case "/history":
		printHistory(conv)
	case "/select":
		if len(fields) < 2 {
			fmt.Println("Usage: /select N")
			return false
		}
		selectFromHistory(ctx, conv, fields[1])
	case "/clear":
		conv.ClearHistory()
		fmt.Println("History cleared.")
	case "/upload":
		if len(fields) < 2 {
			fmt.Println("Usage: /upload <path> [title]")
			return false
		}
		title := strings.Join(fields[2:], " ")
		uploadFile(ctx, ingestSvc, fields[1], title)
	default:
		fmt.Println("Unknown command.")
	}
	return false
}

func selectFromHistory(ctx context.Context, conv *chat.Conversation, arg string) {
	idx, err := strconv.Atoi(arg)
	history := conv.History()
	if err != nil || idx < 1 || idx > len(history) {
		fmt.Println("Invalid selection.")
		return
	}
	item := history[idx-1]
	fmt.Printf("Re-running: %s\n", item.Query)
	if conv.SelectHistory(ctx, item.ID) == chat.OutcomeIgnored {
		fmt.Println("(ignored)")
		return
	}
	printLastAnswer(conv)
}

func printHistory(conv *chat.Conversation) {
	history := conv.History()
	if len(history) == 0 {
		fmt.Println("No previous queries.")
		return
	}
	for i, item := range history {
		fmt.Printf("[%d] %s\n    %s\n", i+1, item.Query, item.Preview)
	}
}

func printLastAnswer(conv *chat.Conversation) {
	msgs := conv.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != domain.RoleAssistant {
		return
	}

	fmt.Println()
	if last.IsWarning {
		fmt.Println("[!] warning")
	}
	fmt.Println(last.Content)
	if last.Confidence != nil {
		fmt.Printf("\nConfidence: %.0f%%\n", *last.Confidence*100)
	}
	for i, src := range last.Sources {
		fmt.Printf("[%d] %s, %s (%d)", i+1, src.Title, src.Journal, src.Year)
		if src.PubmedID != "" {
			fmt.Printf(" PMID %s", src.PubmedID)
		}
		fmt.Println()
	}
}

func uploadFile(ctx context.Context, svc *ingest.Service, path, title string) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Could not open file: %v\n", err)
		return
	}
	defer file.Close()

	_, _ = svc.Upload(ctx, filepath.Base(path), file, domain.UploadMetadata{Title: title})
	fmt.Println(svc.Status())
}
