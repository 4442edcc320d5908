/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ssargent/fleetdb/pkg/controller"
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

const maxColumnWidth = 40

var (
	// headerCellStyle is used for table column headers.
	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			PaddingRight(2)

	// rowStyle is used for odd-numbered table rows.
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingRight(2)

	// altRowStyle is used for even-numbered table rows.
	altRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			PaddingRight(2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(14)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	// dimStyle is used for "no data" and status messages.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// kindColor gives each record kind its own column colour
func kindColor(k vehicle.Kind) lipgloss.Color {
	switch k {
	case vehicle.KindCar:
		return lipgloss.Color("4") // blue
	case vehicle.KindMotorcycle:
		return lipgloss.Color("5") // magenta
	case vehicle.KindTruck:
		return lipgloss.Color("3") // yellow
	default:
		return lipgloss.Color("8") // grey
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputVehicle displays a single vehicle
func outputVehicle(w io.Writer, v *vehicle.Vehicle) error {
	if format == "json" {
		return writeJSON(w, v)
	}

	f := controller.FormFor(v)
	rows := [][2]string{
		{"Plate", v.Plate},
		{"Kind", v.Kind().String()},
		{"Make", v.Make},
		{"Model", v.Model},
		{"Weight", f.Weight},
	}
	switch v.Kind() {
	case vehicle.KindCar:
		rows = append(rows, [2]string{"Style", f.Style})
	case vehicle.KindMotorcycle:
		rows = append(rows, [2]string{"Displacement", f.Displacement})
	case vehicle.KindTruck:
		rows = append(rows, [2]string{"Cargo", f.Cargo})
	}

	for _, r := range rows {
		fmt.Fprintln(w, labelStyle.Render(r[0]+":")+r[1])
	}
	return nil
}

// outputVehicles displays a list of vehicles as a table
func outputVehicles(w io.Writer, vehicles []*vehicle.Vehicle) error {
	if format == "json" {
		if vehicles == nil {
			vehicles = []*vehicle.Vehicle{}
		}
		return writeJSON(w, vehicles)
	}

	if len(vehicles) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No vehicles found"))
		return nil
	}

	headers := []string{"PLATE", "KIND", "MAKE", "MODEL", "WEIGHT", "DETAILS"}
	cells := make([][]string, len(vehicles))
	for i, v := range vehicles {
		cells[i] = []string{
			v.Plate,
			v.Kind().String(),
			v.Make,
			v.Model,
			controller.FormFor(v).Weight,
			v.Summary(),
		}
	}

	widths := make([]int, len(headers))
	for c, h := range headers {
		widths[c] = lipgloss.Width(h)
		for _, row := range cells {
			if n := lipgloss.Width(row[c]); n > widths[c] {
				widths[c] = n
			}
		}
		if widths[c] > maxColumnWidth {
			widths[c] = maxColumnWidth
		}
	}

	lines := make([]string, 0, len(cells)+1)
	header := make([]string, len(headers))
	for c, h := range headers {
		header[c] = headerCellStyle.Width(widths[c] + 2).Render(h)
	}
	lines = append(lines, strings.Join(header, ""))

	for i, row := range cells {
		style := rowStyle
		if i%2 == 1 {
			style = altRowStyle
		}
		out := make([]string, len(row))
		for c, cell := range row {
			s := style
			if c == 1 {
				s = s.Foreground(kindColor(vehicles[i].Kind()))
			}
			out[c] = s.Width(widths[c] + 2).Render(truncate(cell, widths[c]))
		}
		lines = append(lines, strings.Join(out, ""))
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))
	return nil
}

// outputStats displays the record counts
func outputStats(w io.Writer, s controller.Stats) error {
	if format == "json" {
		return writeJSON(w, s)
	}
	fmt.Fprintln(w, labelStyle.Render("Records:")+fmt.Sprint(s.Records))
	fmt.Fprintln(w, labelStyle.Render("Capacity:")+fmt.Sprint(s.Capacity))
	for _, k := range vehicle.Kinds {
		fmt.Fprintln(w, labelStyle.Render(k.String()+":")+fmt.Sprint(s.ByKind[k.String()]))
	}
	fmt.Fprintln(w, labelStyle.Render("Snapshot:")+s.FileName+" ("+s.Driver+")")
	return nil
}

// truncate shortens s to maxLen runes, appending "…" if truncation occurred.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
