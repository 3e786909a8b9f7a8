// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/spf13/cobra"
)

var watchRaw bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live telegram monitor",
	Long: `Watch telegrams on the bus in an interactive terminal UI.

Every decoded telegram is shown with its timestamp, command, address, and
payload. Decode failures are counted and highlighted; a healthy bus shows
none. Useful for eavesdropping on an existing installation before taking
it over, or for verifying what a head-end controller actually transmits.

Keys:
  q / ctrl+c  quit
  up / down   scroll the telegram log

Supports both serial and WebSocket connections.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchRaw, "raw", false, "Also log bytes that fail to decode")
}

// Messages from the reader goroutine
type telegramMsg struct {
	telegram *ibis.Telegram
}
type decodeErrMsg struct {
	err error
}
type connLostMsg struct {
	err error
}

type watchModel struct {
	connInfo  string
	viewport  viewport.Model
	lines     []string
	maxLines  int
	telegrams int
	errors    int
	connLost  error
	ready     bool
	quitting  bool
}

func initialWatchModel(connInfo string) watchModel {
	return watchModel{
		connInfo: connInfo,
		maxLines: 500,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(strings.Join(m.lines, "\n"))

	case telegramMsg:
		m.telegrams++
		m.appendLine(strings.TrimRight(ibis.FormatTelegram(msg.telegram), "\n"))

	case decodeErrMsg:
		m.errors++
		if watchRaw {
			m.appendLine(fmt.Sprintf("[%s] DECODE ERROR: %v",
				time.Now().Format("15:04:05.000"), msg.err))
		}

	case connLostMsg:
		m.connLost = msg.err
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *watchModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
	if m.ready {
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		if atBottom {
			m.viewport.GotoBottom()
		}
	}
}

func (m watchModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	var s strings.Builder
	s.WriteString(titleStyle.Render("IBISCTL - TELEGRAM MONITOR"))
	s.WriteString("\n")

	stats := fmt.Sprintf("%s | Telegrams: %d", m.connInfo, m.telegrams)
	s.WriteString(headerStyle.Render(stats))
	if m.errors > 0 {
		s.WriteString("  ")
		s.WriteString(errorStyle.Render(fmt.Sprintf("Errors: %d", m.errors)))
	}
	s.WriteString("\n")

	if m.connLost != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("CONNECTION LOST: %v", m.connLost)))
	} else {
		s.WriteString(headerStyle.Render("Press 'q' to quit"))
	}
	s.WriteString("\n\n")

	if m.ready {
		s.WriteString(m.viewport.View())
	}
	return s.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	m := initialWatchModel(connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	done := make(chan struct{})
	go func() {
		decoder := ibis.NewDecoder()
		buf := make([]byte, 128)
		for {
			select {
			case <-done:
				return
			default:
			}

			n, err := conn.Read(buf)
			if err != nil {
				p.Send(connLostMsg{err: err})
				return
			}
			if n == 0 {
				continue
			}

			for i := 0; i < n; i++ {
				telegram, err := decoder.DecodeByte(buf[i])
				if err != nil {
					p.Send(decodeErrMsg{err: err})
					continue
				}
				if telegram != nil {
					p.Send(telegramMsg{telegram: telegram})
				}
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		close(done)
		return fmt.Errorf("TUI error: %v", err)
	}
	close(done)
	return nil
}
