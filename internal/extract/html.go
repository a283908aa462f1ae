package extract

import (
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/unit"
)

// HTMLBlocks extracts units from the HTML document at path using CSS
// selectors. Per item: the id comes from the idSelector match's idAttr
// (default "id"), then its text, then the item's own attr, then the 1-based
// position. The body joins descSelector matches with "\n", falling back to
// the item's own text. Items with blank bodies are dropped.
func HTMLBlocks(path string, cfg HTMLConfig) ([]unit.Unit, error) {
	if strings.TrimSpace(cfg.ItemSelector) == "" {
		return nil, fault.NewConfigError("html", "itemSelector")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}

	return htmlUnits(doc, cfg), nil
}

// HTMLBlocksFromString is HTMLBlocks over in-memory markup. Used for
// browser-rendered pages where the document never touches disk.
func HTMLBlocksFromString(markup string, cfg HTMLConfig) ([]unit.Unit, error) {
	if strings.TrimSpace(cfg.ItemSelector) == "" {
		return nil, fault.NewConfigError("html", "itemSelector")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fault.ErrValidationFailed
	}
	return htmlUnits(doc, cfg), nil
}

func htmlUnits(doc *goquery.Document, cfg HTMLConfig) []unit.Unit {
	idAttr := cfg.IDAttr
	if idAttr == "" {
		idAttr = "id"
	}

	var units []unit.Unit
	doc.Find(cfg.ItemSelector).Each(func(i int, item *goquery.Selection) {
		id := resolveItemID(item, cfg.IDSelector, idAttr, i)
		body := resolveItemBody(item, cfg.DescSelector)
		if body == "" {
			return
		}
		units = append(units, unit.Unit{ID: id, Body: body})
	})
	return units
}

func resolveItemID(item *goquery.Selection, idSelector, idAttr string, pos int) string {
	fallback := strconv.Itoa(pos + 1)

	if strings.TrimSpace(idSelector) != "" {
		node := item.Find(idSelector).First()
		if node.Length() == 0 {
			return fallback
		}
		if v, ok := node.Attr(idAttr); ok {
			return v
		}
		if t := strings.TrimSpace(node.Text()); t != "" {
			return t
		}
		return fallback
	}

	if v, ok := item.Attr(idAttr); ok {
		return v
	}
	return fallback
}

func resolveItemBody(item *goquery.Selection, descSelector string) string {
	if strings.TrimSpace(descSelector) != "" {
		var parts []string
		item.Find(descSelector).Each(func(_ int, n *goquery.Selection) {
			if t := strings.TrimSpace(n.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return strings.TrimSpace(item.Text())
}
