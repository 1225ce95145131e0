package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func (a *app) renderProducts(products []models.Product) error {
	if a.flags.output == outputJSON {
		return a.writeJSON(products)
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Price", "Stock", "Status", "Updated"})
	for _, p := range products {
		t.AppendRow(table.Row{p.ID, p.Name, p.Category, formatPrice(p.Price), p.Stock, status(p.IsActive), p.UpdatedAt.Format("2006-01-02")})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d products", len(products))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Price", Align: text.AlignRight},
		{Name: "Stock", Align: text.AlignRight},
	})
	t.Render()
	return nil
}

func (a *app) renderProduct(p *models.Product) error {
	if a.flags.output == outputJSON {
		return a.writeJSON(p)
	}

	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(p.Name)
	t.AppendRows([]table.Row{
		{"ID", p.ID},
		{"Description", p.Description},
		{"Category", p.Category},
		{"Price", formatPrice(p.Price)},
		{"Stock", p.Stock},
		{"Status", status(p.IsActive)},
		{"Image", p.ImageURL},
		{"Created", p.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Updated", p.UpdatedAt.Format("2006-01-02 15:04:05")},
	})
	t.Render()
	return nil
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func status(active bool) string {
	if active {
		return text.FgGreen.Sprint("Active")
	}
	return text.FgRed.Sprint("Inactive")
}
