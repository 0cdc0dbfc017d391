package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexicard-dev/lexicard/pkg/client"
)

func connectCmd() *cobra.Command {
	var (
		loginURL string
		gateway  string
		roomName string
		joinRoom string
		ready    bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Log in, connect to the gateway, and stream events",
		Long: `Connect performs the full client bootstrap: HTTP login, gateway
dial, authentication — then streams every server event to stdout until
interrupted.

Examples:
  lexicard connect
  lexicard connect --login-url=http://127.0.0.1:8081/login
  lexicard connect --create="my room" --ready
  lexicard connect --join=room-1 --ready`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(loginURL, gateway, roomName, joinRoom, ready, verbose)
		},
	}

	cmd.Flags().StringVar(&loginURL, "login-url", "http://127.0.0.1:8081/login", "Login service endpoint")
	cmd.Flags().StringVar(&gateway, "gateway", "", "Gateway URL override (default from login response)")
	cmd.Flags().StringVar(&roomName, "create", "", "Create a room with this name after authenticating")
	cmd.Flags().StringVar(&joinRoom, "join", "", "Join this room id after authenticating")
	cmd.Flags().BoolVar(&ready, "ready", false, "Mark ready once seated in a room")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func runConnect(loginURL, gateway, roomName, joinRoom string, ready, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []client.Option{
		client.WithLoginURL(loginURL),
		client.WithLogger(logger),
	}
	if gateway != "" {
		opts = append(opts, client.WithGatewayURL(gateway))
	}
	session := client.NewSession(opts...)

	events, cancel := session.Subscribe()
	defer cancel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := session.Connect(ctx); err != nil {
		return err
	}
	defer session.Disconnect()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			printEvent(ev)
			if err := reactTo(ctx, session, ev, roomName, joinRoom, ready); err != nil {
				return err
			}
			if ev.Type == client.EventDisconnected {
				return ev.Err
			}
		}
	}
}

// reactTo drives the optional scripted actions from the event stream.
func reactTo(ctx context.Context, s *client.Session, ev client.Event, roomName, joinRoom string, ready bool) error {
	switch ev.Type {
	case client.EventAuthSucceeded:
		if roomName != "" {
			return s.CreateRoom(ctx, roomName)
		}
		if joinRoom != "" {
			return s.JoinRoom(ctx, joinRoom)
		}
		return s.RequestRoomList(ctx)

	case client.EventRoomCreated, client.EventRoomJoined:
		if ready {
			return s.SetReady(ctx, true)
		}
	}
	return nil
}

func printEvent(ev client.Event) {
	switch ev.Type {
	case client.EventStateChanged:
		fmt.Printf("state: %s\n", ev.State)
	case client.EventAuthSucceeded:
		fmt.Printf("authenticated: uid=%d nickname=%s\n", ev.Auth.UID, ev.Auth.Nickname)
	case client.EventAuthFailed:
		fmt.Printf("auth failed: %s\n", ev.Code.Message())
	case client.EventRoomList:
		fmt.Printf("rooms: %d\n", len(ev.Rooms))
		for _, rm := range ev.Rooms {
			fmt.Printf("  %s  %q  %d/%d\n", rm.ID, rm.Name, rm.CurrentPlayers, rm.MaxPlayers)
		}
	case client.EventRoomCreated, client.EventRoomJoined, client.EventRoomState:
		if ev.Detail != nil && ev.Detail.Room != nil {
			fmt.Printf("room %s: %d players\n", ev.Detail.Room.ID, len(ev.Detail.Players))
		}
	case client.EventRoomLeft:
		fmt.Println("left room")
	case client.EventReadyResult:
		fmt.Printf("ready: %s\n", ev.Code.Message())
	case client.EventGameStarted:
		fmt.Printf("game started in %s\n", ev.GameStart.RoomID)
	case client.EventGameState:
		if ev.GameState != nil && ev.GameState.State != nil && ev.GameState.State.Table != nil {
			fmt.Printf("sentence: %q\n", ev.GameState.State.Table.Sentence)
		}
	case client.EventActionResult:
		fmt.Printf("action: %s\n", ev.Code.Message())
	case client.EventActionReplicated:
		if ev.Action != nil {
			fmt.Printf("player %d: %s\n", ev.Action.PlayerID, ev.Action.Type)
		}
	case client.EventGameEnded:
		fmt.Println("game over")
		if ev.GameEnd != nil {
			for _, p := range ev.GameEnd.Players {
				fmt.Printf("  %s: %d\n", p.Name, p.CurrentScore)
			}
		}
	case client.EventRequestRejected:
		fmt.Printf("rejected: %s\n", ev.Code.Message())
	case client.EventProtocolError:
		fmt.Printf("protocol error: %v\n", ev.Err)
	case client.EventDisconnected:
		if ev.Err != nil {
			fmt.Printf("disconnected: %v\n", ev.Err)
		} else {
			fmt.Println("disconnected")
		}
	}
}
