// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package format renders amounts, traffic and addresses for console output and
for the formatted fields of API responses.

Numbers are grouped through golang.org/x/text/message so separators follow the
printer's language rather than a hard-coded comma.
*/
package format

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is the unit appended by [Currency].
const DefaultCurrency = "USDT"

var trafficUnits = []string{"B", "KB", "MB", "GB", "TB"}

var printer = message.NewPrinter(language.English)

// Traffic renders a byte count with two decimals in the largest unit that
// keeps the value >= 1, capped at TB (e.g. 1536 → "1.50 KB").
func Traffic(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(trafficUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, trafficUnits[unit])
}

// Number groups thousands (e.g. 1234567 → "1,234,567").
func Number(n float64) string {
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(6)))
}

// NumberString parses a decimal string and groups it. Unparseable input is
// returned unchanged.
func NumberString(raw string) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return Number(n)
}

// Currency renders an amount followed by a currency unit. An empty unit
// means [DefaultCurrency].
func Currency(raw string, unit string) string {
	if unit == "" {
		unit = DefaultCurrency
	}
	return NumberString(raw) + " " + unit
}

// Percent renders a ratio as a percentage (0.125 → "12.50%").
func Percent(ratio float64, decimals int) string {
	return strconv.FormatFloat(ratio*100, 'f', decimals, 64) + "%"
}

// Address shortens a wallet address to its first start and last end
// characters. Addresses short enough to show in full are returned as is.
func Address(address string, start, end int) string {
	if len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}

// Truncate cuts s to max runes and appends "...".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
