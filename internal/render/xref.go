package render

import (
	"strconv"
	"strings"

	"github.com/alnah/go-mark2doc/internal/markup"
)

// index assigns display numbers to sections, figures and captioned tables
// for targets without native counters. It is built by a read-only walk in
// document order before primary emission, so sequential counters kept by
// a renderer during its own walk always agree with it.
type index struct {
	section map[string]string // label -> hierarchical number ("2.1")
	title   map[string]string // label -> heading title
	figure  map[string]int
	table   map[string]int
}

func buildIndex(doc *markup.Document) *index {
	ix := &index{
		section: map[string]string{},
		title:   map[string]string{},
		figure:  map[string]int{},
		table:   map[string]int{},
	}
	var nums []int
	figures, tables := 0, 0
	for _, sec := range doc.Sections {
		h := sec.Heading
		if h.Level > len(nums) {
			for len(nums) < h.Level {
				nums = append(nums, 0)
			}
		} else {
			nums = nums[:h.Level]
		}
		nums[h.Level-1]++
		if h.Ref != "" {
			ix.section[h.Ref] = joinNums(nums)
			ix.title[h.Ref] = h.Title
		}
		for _, blk := range sec.Blocks {
			switch v := blk.(type) {
			case *markup.Insert:
				figures++
				if v.Ref != "" {
					ix.figure[v.Ref] = figures
				}
			case *markup.Table:
				if v.Kind() == markup.KindTabular {
					continue // bare grids carry no caption or number
				}
				tables++
				if v.Ref != "" {
					ix.table[v.Ref] = tables
				}
			}
		}
	}
	return ix
}

func joinNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Unresolved labels display like unresolved typeset references.
const unresolved = "??"

func (ix *index) sectionNum(label string) string {
	if n, ok := ix.section[label]; ok {
		return n
	}
	return unresolved
}

func (ix *index) sectionTitle(label string) string {
	if t, ok := ix.title[label]; ok {
		return t
	}
	return unresolved
}

func (ix *index) figureNum(label string) string {
	if n, ok := ix.figure[label]; ok {
		return strconv.Itoa(n)
	}
	return unresolved
}

func (ix *index) tableNum(label string) string {
	if n, ok := ix.table[label]; ok {
		return strconv.Itoa(n)
	}
	return unresolved
}
