package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weatherdash/manager"
)

// Screen is the part of the terminal view the commands read back.
type Screen interface {
	SearchEnabled() bool
	Status() string
	PrintHistory()
}

// Loop is the UI event loop every view update runs on.
type Loop interface {
	manager.Poster
	Run(ctx context.Context)
	Flush(ctx context.Context) error
}

type cli struct {
	weather manager.Weather
	loop    Loop
	screen  Screen
	log     *zap.Logger
}

func New(weather manager.Weather, loop Loop, screen Screen, log *zap.Logger) (*cobra.Command, error) {
	if weather == nil || loop == nil || screen == nil {
		return nil, fmt.Errorf("cli: weather, loop and screen are required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &cli{weather: weather, loop: loop, screen: screen, log: log}

	cmd := &cobra.Command{
		Use:   "weatherdash [city...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Current conditions, 24 hour and 7 day forecast for any city",
		Long: "Without arguments weatherdash starts an interactive prompt.\n" +
			"Type a city to search, :history to list recent cities, :h N to repeat\n" +
			"entry N, :voice for voice input and :quit to leave.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := c.start(cmd.Context())
			defer stop()

			if len(args) > 0 {
				return c.once(cmd.Context(), strings.Join(args, " "))
			}

			return c.interactive(cmd)
		},
	}

	cmd.AddCommand(c.historyCommand(), c.watchCommand())

	return cmd, nil
}

// start runs the UI loop until the returned func is called.
func (c *cli) start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.loop.Run(ctx)
	}()

	return func() {
		c.weather.Wait()
		_ = c.loop.Flush(ctx)
		cancel()
		<-done
	}
}

// settle waits for running searches and for their view updates to land.
func (c *cli) settle(ctx context.Context) error {
	c.weather.Wait()
	return c.loop.Flush(ctx)
}

func (c *cli) once(ctx context.Context, city string) error {
	if err := c.weather.Search(ctx, city); err != nil {
		return err
	}
	if err := c.settle(ctx); err != nil {
		return err
	}
	if status := c.screen.Status(); status != manager.StatusUpdated {
		return fmt.Errorf("search %q: %s", strings.TrimSpace(city), status)
	}

	return nil
}

func (c *cli) interactive(cmd *cobra.Command) error {
	ctx := cmd.Context()

	c.weather.Init()
	if err := c.settle(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	cmd.Print("city> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ":quit" || line == ":q":
			return nil
		case line == ":history":
			c.loop.Post(c.screen.PrintHistory)
		case line == ":h":
			cmd.PrintErrln("usage: :h N")
		case strings.HasPrefix(line, ":h "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":h ")))
			if err != nil {
				cmd.PrintErrf("not a history entry: %q\n", line)
				break
			}
			if err := c.weather.SearchHistory(ctx, n-1); err != nil {
				cmd.PrintErrln(err)
			}
		case line == ":voice":
			_ = c.weather.Dictate(ctx)
		default:
			if !c.screen.SearchEnabled() {
				cmd.PrintErrln("a search is already running")
				break
			}
			_ = c.weather.Search(ctx, line)
		}

		if err := c.settle(ctx); err != nil {
			return err
		}
		cmd.Print("city> ")
	}

	return scanner.Err()
}

func (c *cli) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Args:  cobra.NoArgs,
		Short: "List recently searched cities, most recent first",
		Run: func(cmd *cobra.Command, args []string) {
			cities := c.weather.Recent()
			if len(cities) == 0 {
				cmd.Println("No history")
				return
			}
			for i, city := range cities {
				cmd.Printf("%2d. %s\n", i+1, city)
			}
		},
	}
}
