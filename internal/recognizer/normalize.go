package recognizer

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"scan1c/internal/domain"
)

// DefaultItemName is used when the model omits the name of a line item.
const DefaultItemName = "Товар"

var (
	minQuantity = decimal.RequireFromString("0.001")
	oneDecimal  = decimal.NewFromInt(1)
)

// Accepted key spellings per field, in lookup order. Lookup tries an exact
// match over the whole list first, then a case-insensitive one.
var (
	innKeys      = []string{"SupplierINN", "supplierINN", "supplierInn", "supplier_inn", "INN", "inn"}
	docNumKeys   = []string{"DocNumber", "docNumber", "doc_number", "DocumentNumber", "documentNumber", "number"}
	docDateKeys  = []string{"DocDate", "docDate", "doc_date", "DocumentDate", "documentDate", "date"}
	totalSumKeys = []string{"TotalSum", "totalSum", "total_sum", "DocumentTotal", "documentTotal"}
	itemsKeys    = []string{"Items", "items", "LineItems", "lineItems", "line_items", "Goods", "goods"}

	articleKeys  = []string{"ItemArticle", "itemArticle", "item_article", "Article", "article", "SKU", "sku", "code"}
	nameKeys     = []string{"ItemName", "itemName", "item_name", "Name", "name", "title", "description"}
	quantityKeys = []string{"Quantity", "quantity", "Qty", "qty", "Count", "count"}
	priceKeys    = []string{"Price", "price", "UnitPrice", "unitPrice", "unit_price"}
)

// NormalizePage converts a parsed model reply into a PageResult. It never
// fails: missing or malformed fields fall back to documented defaults.
func NormalizePage(obj map[string]any) domain.PageResult {
	page := domain.PageResult{
		SupplierINN:   digitsOnly(lookupString(obj, innKeys)),
		DocNumber:     strings.TrimSpace(lookupString(obj, docNumKeys)),
		DocDate:       strings.TrimSpace(lookupString(obj, docDateKeys)),
		Items:         []domain.LineItem{},
		ReportedTotal: toFloat(parseNumber(lookup(obj, totalSumKeys))),
	}

	rawItems, _ := lookup(obj, itemsKeys).([]any)
	for _, raw := range rawItems {
		itemObj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		page.Items = append(page.Items, NormalizeItem(itemObj))
	}
	return page
}

// NormalizeItem converts one raw item object. The model's own total is ignored.
func NormalizeItem(obj map[string]any) domain.LineItem {
	name := strings.TrimSpace(lookupString(obj, nameKeys))
	if name == "" {
		name = DefaultItemName
	}

	qty := oneDecimal
	if v := lookup(obj, quantityKeys); v != nil {
		if d, ok := parseDecimal(v); ok {
			qty = d
		}
	}
	if qty.LessThan(minQuantity) {
		qty = minQuantity
	}

	price := parseNumber(lookup(obj, priceKeys))
	if price.IsNegative() {
		price = decimal.Zero
	}

	return domain.LineItem{
		ItemArticle: strings.TrimSpace(lookupString(obj, articleKeys)),
		ItemName:    name,
		Quantity:    toFloat(qty),
		Price:       toFloat(price),
		Total:       toFloat(qty.Mul(price).Round(2)),
	}
}

// LineTotal returns round2(quantity × price).
func LineTotal(quantity, price float64) float64 {
	return toFloat(decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Round(2))
}

// SumTotals returns round2 of the sum of item totals.
func SumTotals(items []domain.LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Total))
	}
	return toFloat(sum.Round(2))
}

// RecomputeTotals rewrites every item total and returns the document total.
func RecomputeTotals(items []domain.LineItem) float64 {
	for i := range items {
		items[i].Total = LineTotal(items[i].Quantity, items[i].Price)
	}
	return SumTotals(items)
}

func lookup(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	for _, k := range keys {
		for actual, v := range obj {
			if v != nil && strings.EqualFold(actual, k) {
				return v
			}
		}
	}
	return nil
}

func lookupString(obj map[string]any, keys []string) string {
	switch v := lookup(obj, keys).(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprint(v)
	}
}

func parseNumber(v any) decimal.Decimal {
	d, ok := parseDecimal(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

func parseDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		cleaned := cleanNumericString(val)
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// cleanNumericString turns "1 234,50" or "5,5 руб." into "1234.50" and "5.5".
// A comma is a decimal separator unless a dot follows it.
func cleanNumericString(s string) string {
	var b strings.Builder
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
		default:
			// Currency signs and units end the number.
			if b.Len() > 0 {
				break scan
			}
		}
	}

	out := b.String()
	if strings.Contains(out, ",") {
		if strings.LastIndex(out, ".") > strings.LastIndex(out, ",") {
			out = strings.ReplaceAll(out, ",", "")
		} else {
			out = strings.ReplaceAll(out, ".", "")
			out = strings.ReplaceAll(out, ",", ".")
		}
	}
	out = strings.TrimRight(out, ".")
	if out == "-" {
		return ""
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
