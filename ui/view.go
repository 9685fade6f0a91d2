package ui

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/meghashyamc/docsearch/services/search"
)

const (
	untitled     = "Untitled"
	missingPage  = "—"
	scoreDecimal = 4
)

type Page struct {
	Query   string
	Loading bool
	Error   string
	Results []search.Result
}

func NewPage(state search.State) Page {
	return Page{
		Query:   state.Query,
		Loading: state.Loading,
		Error:   search.Message(state.Err),
		Results: state.Results,
	}
}

func (p Page) ResultCount() int {
	return len(p.Results)
}

// CleanText drops lines that are empty or only whitespace.
func CleanText(text *string) string {
	if text == nil {
		return ""
	}

	lines := strings.Split(*text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > 0 {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// FormatScore rounds the exact value of score to four decimals, halves away from zero.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return strconv.FormatFloat(score, 'f', scoreDecimal, 64)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(scoreDecimal), nil)
	scaled := new(big.Rat).SetFloat64(score)
	scaled.Mul(scaled, new(big.Rat).SetInt(scale))
	scaled.Add(scaled, big.NewRat(1, 2))
	rounded := new(big.Int).Quo(scaled.Num(), scaled.Denom())

	digits := rounded.String()
	if len(digits) <= scoreDecimal {
		digits = strings.Repeat("0", scoreDecimal-len(digits)+1) + digits
	}
	point := len(digits) - scoreDecimal

	return sign + digits[:point] + "." + digits[point:]
}

func PageLabel(pageNumber *int) string {
	if pageNumber == nil {
		return missingPage
	}
	return strconv.Itoa(*pageNumber)
}

func TitleOrUntitled(title *string) string {
	if title == nil || len(*title) == 0 {
		return untitled
	}
	return *title
}

// Rank is the 1-based position badge of the result at index.
func Rank(index int) string {
	return "#" + strconv.Itoa(index+1)
}
