package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// FormatProtocolList renders the catalog as a table.
func FormatProtocolList(protocols []*domain.Protocol) string {
	if len(protocols) == 0 {
		return Dim("No protocols loaded.") + "\n"
	}
	headers := []string{"NAME", "TITLE", "VERSION", "SESSIONS"}
	rows := make([][]string, 0, len(protocols))
	for _, p := range protocols {
		names := make([]string, 0, len(p.Sessions))
		for _, s := range p.Sessions {
			names = append(names, s.Name)
		}
		rows = append(rows, []string{
			Bold(p.Name),
			StyleFg.Render(p.Title),
			Dim(p.Version),
			StyleBlue.Render(strings.Join(names, ", ")),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProtocol renders one protocol with its sessions and items.
func FormatProtocol(p *domain.Protocol, defaultSeconds int) string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n\n")
	}

	var tree []TreeItem
	for si, s := range p.Sessions {
		title := s.Title
		if title == "" {
			title = s.Name
		}
		tree = append(tree, TreeItem{
			Title:  fmt.Sprintf("%s %s", Bold(title), Dim(string(domain.NewSessionType(p.Name, s.Name)))),
			Level:  0,
			IsLast: si == len(p.Sessions)-1,
		})
		for ii, it := range s.Items {
			secs := tracker.ParseDuration(it.DurationText, defaultSeconds)
			tree = append(tree, TreeItem{
				Title:  fmt.Sprintf("%s %s", it.Name, Dim("("+it.Key+")")),
				Seq:    ii + 1,
				Level:  1,
				IsLast: ii == len(s.Items)-1,
				Detail: fmt.Sprintf("%s = %s", it.DurationText, FormatSeconds(secs)),
			})
		}
	}
	b.WriteString(RenderTree(tree))

	title := p.Title
	if title == "" {
		title = p.Name
	}
	return RenderBox(fmt.Sprintf("%s v%s", title, p.Version), b.String())
}
