// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/livechat/internal/config"
	"github.com/jeranaias/livechat/internal/controller"
	"github.com/jeranaias/livechat/internal/export"
	"github.com/jeranaias/livechat/internal/model"
	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history for the REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads any saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	c.LoadHistory()
	return c
}

// LoadHistory reads the history file if it exists.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput prompts for one line; non-blank input is added to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if !util.IsBlank(input) {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history owner-only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start a line-mode chat session",
		Long: `Start a line-mode chat session with input history.

Type a message and press Enter to send it. Commands:
` + slashHelp,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLog: "file"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return runREPL(cmd, a)
		},
	}
}

func runREPL(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	input := NewChatCLI()
	defer input.Close()

	fmt.Fprintln(out, labelStyle.Render(a.cfg.UI.Title)+" "+mutedStyle.Render("("+a.cfg.Model()+")"))
	fmt.Fprintln(out, mutedStyle.Render("Type /help for commands, /quit to exit."))

	tty := IsStdoutTTY()
	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and closed input all end the session
			fmt.Fprintln(out)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !handleLine(cmd.Context(), out, cmd.ErrOrStderr(), a, line, tty) {
			return nil
		}
	}
}

// handleLine runs one line of REPL input and reports whether the session
// continues. Blankness and slash commands are judged on the trimmed line;
// messages are sent as typed.
func handleLine(ctx context.Context, out, errOut io.Writer, a *app, line string, tty bool) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	if strings.HasPrefix(trimmed, "/") {
		more, err := handleSlashCommand(trimmed, out, a.ctrl)
		if err != nil {
			fmt.Fprintln(errOut, errorStyle.Render("[Error]")+" "+err.Error())
		}
		return more
	}

	sendLine(ctx, out, a, line, tty)
	return true
}

// sendLine sends one message and prints the reply or the failure.
func sendLine(ctx context.Context, out io.Writer, a *app, text string, tty bool) {
	before := a.sink.Count()
	if !a.ctrl.SendMessage(ctx, text) {
		return
	}
	if a.sink.Count() != before {
		fmt.Fprintln(out, errorStyle.Render("Could not get a reply:")+" "+a.sink.Last().Error())
		return
	}
	chat, ok := a.ctrl.Store().CurrentChat()
	if !ok {
		return
	}
	if last, ok := chat.LastMessage(); ok && !last.IsUser() {
		displayResponse(out, last.Content, tty)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const slashHelp = `  /new          start a new chat and archive the current one
  /list         list chats and chat history
  /select N     switch to chat N from /list
  /history      show the messages of the current chat
  /export [md|json] [DIR]
                write the current chat to a file
  /help         show this help
  /quit, /exit  leave the session`

// handleSlashCommand runs one slash command. It returns false when the
// session should end.
func handleSlashCommand(line string, w io.Writer, ctrl *controller.Controller) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}

	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return false, nil

	case "/help", "/h", "/?":
		fmt.Fprintln(w, slashHelp)

	case "/new", "/n":
		chat := ctrl.StartNewChat()
		fmt.Fprintf(w, "Started %s\n", chat.Name)

	case "/list", "/ls":
		printChatList(w, ctrl.View())

	case "/select", "/s":
		if len(fields) != 2 {
			return true, errors.New("usage: /select N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return true, fmt.Errorf("invalid chat number %q", fields[1])
		}
		chats := listedChats(ctrl.View())
		if n > len(chats) {
			return true, fmt.Errorf("no chat %d (have %d)", n, len(chats))
		}
		if !ctrl.SelectChat(chats[n-1].ID) {
			return true, fmt.Errorf("chat %d is no longer available", n)
		}
		fmt.Fprintf(w, "Switched to %s\n", chats[n-1].Name)

	case "/history":
		v := ctrl.View()
		if !v.HasCurrent || v.Current.IsEmpty() {
			fmt.Fprintln(w, mutedStyle.Render(model.EmptyPreview))
			return true, nil
		}
		for _, msg := range v.Current.Messages {
			fmt.Fprintf(w, "%s %s %s\n",
				mutedStyle.Render(msg.Clock()),
				labelStyle.Render(msg.Sender.DisplayName()+":"),
				msg.Content)
		}

	case "/export":
		return true, exportCurrent(w, ctrl, fields[1:])

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return true, nil
}

// exportCurrent handles "/export [md|json] [DIR]".
func exportCurrent(w io.Writer, ctrl *controller.Controller, args []string) error {
	if len(args) > 2 {
		return errors.New("usage: /export [md|json] [DIR]")
	}
	opts := export.DefaultOptions()
	format := ""
	if len(args) > 0 {
		format = args[0]
	}
	if len(args) > 1 {
		opts.OutputDir = args[1]
	}

	exporter, err := export.ExporterFor(format, opts)
	if err != nil {
		return err
	}
	v := ctrl.View()
	if !v.HasCurrent {
		return errors.New("no current chat")
	}
	path, err := export.ExportToFile(v.Current, exporter, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %s to %s\n", v.Current.Name, path)
	return nil
}

// listedChats orders chats the way /list numbers them.
func listedChats(v controller.View) []model.Chat {
	chats := make([]model.Chat, 0, len(v.Active)+len(v.Archived))
	chats = append(chats, v.Active...)
	return append(chats, v.Archived...)
}

func printChatList(w io.Writer, v controller.View) {
	n := 1
	section := func(title string, chats []model.Chat, empty string) {
		fmt.Fprintln(w, labelStyle.Render(title))
		if len(chats) == 0 {
			fmt.Fprintln(w, "  "+mutedStyle.Render(empty))
		}
		for _, c := range chats {
			marker := " "
			name := c.Name
			if v.HasCurrent && c.ID == v.Current.ID {
				marker = "*"
				name = currentStyle.Render(name)
			}
			fmt.Fprintf(w, "%s %2d. %s  %s\n", marker, n, name, mutedStyle.Render(c.Preview(40)))
			n++
		}
	}
	section("Chats", v.Active, "No chats")
	section("Chat History", v.Archived, "Nothing archived yet")
}
