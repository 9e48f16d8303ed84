package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"

	"chatstream/contract"
	"chatstream/domain"
	"chatstream/internal"
	"chatstream/repositories"
	"chatstream/runtime"
	"chatstream/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting, so that
// deferred cleanup (database close, chat disposal) executes on every exit
// path before main() decides the process status.
func run() error {
	userID := flag.String("user", "", "Local user id")
	chatID := flag.String("chat", "", "Chat id to join; a new chat is created when empty")
	chatName := flag.String("name", "dev chat", "Name for a newly created chat")
	flag.Parse()
	if *userID == "" {
		return fmt.Errorf("missing -user")
	}

	// 1. Configuration & Logger
	config, err := internal.Load()
	if err != nil {
		return err
	}
	level, err := config.SlogLevel()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// 2. Backend selection: persistent store when configured, in-memory
	// otherwise
	var adapter contract.BackendAdapter
	switch {
	case config.BadgerFilepath != "":
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		badgerAdapter := repositories.NewBadgerAdapter(db, log)
		defer badgerAdapter.Close()
		adapter = badgerAdapter
	case config.PebbleFilepath != "":
		pebbleAdapter, err := repositories.OpenPebbleAdapter(config.PebbleFilepath, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("Closing Pebble...")
			_ = pebbleAdapter.Close()
		}()
		adapter = pebbleAdapter
	default:
		adapter = repositories.NewMemoryAdapter(log)
	}

	// 3. Session & Signals
	service := services.NewChatService(domain.User{ID: *userID}, adapter, log, runtime.Options{
		StreamBuffer: config.StreamBufferSize,
		ReplayDepth:  config.ReplayDepth,
	})
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Create or join the chat
	var chat *runtime.Chat
	if *chatID == "" {
		chat, err = service.CreateChat(ctx, services.CreateChatCommand{Name: *chatName})
	} else {
		chat, err = service.Join(ctx, *chatID)
	}
	if err != nil {
		return err
	}
	banner := fmt.Sprintf(" chat %s | user %s | %d member(s) ", chat.ID(), *userID, len(chat.Users()))
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(banner))

	// 5. Print incoming events until the streams or the context end
	messages := chat.SubscribeMessages()
	userEvents := chat.SubscribeUserEvents()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages.Events():
				if !ok {
					if err := messages.Err(); err != nil {
						fmt.Println(color.Red.Render("stream failed: " + err.Error()))
					}
					stop()
					return
				}
				from := color.Cyan.Render(message.From)
				fmt.Printf("%s %s %s\n", message.Date.Format("15:04:05"), from, message.Text())
			case userEvent, ok := <-userEvents.Events():
				if !ok {
					return
				}
				fmt.Println(color.Yellow.Render(
					fmt.Sprintf("* %s %s", userEvent.User.ID, userEvent.Type)))
			}
		}
	}()

	// 6. Read outgoing messages from stdin
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully...")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text := strings.TrimSpace(line)
			switch {
			case text == "":
			case text == "/leave":
				return service.LeaveChat(ctx, chat)
			default:
				if _, err := chat.SendMessageWithText(ctx, text); err != nil {
					log.Error("send failed", "error", err)
				}
			}
		}
	}
}
