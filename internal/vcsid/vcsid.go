// Package vcsid extracts version-control keyword information from class constants.
package vcsid

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/entities"
	"git.home.luguber.info/inful/docsmith/internal/humanize"
)

// $Id: route.rb 437 2008-03-28 00:49:20Z deveiant $
var idPattern = regexp.MustCompile(`\$Id:\s(\S+)\s(\d+)\s(\d{4}-\d{2}-\d{2})\s(\d{2}:\d{2}:\d{2}Z)\s(\w+)\s\$$`)

const commitLayout = "2006-01-02 15:04:05Z"

// Info is the parsed keyword plus the commit age relative to a reference clock.
type Info struct {
	File        string
	Rev         int
	CommitDate  time.Time
	Committer   string
	CommitDelta string
}

// Parse reads an expanded $Id$ keyword.
func Parse(value string) (*Info, bool) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return nil, false
	}
	rev, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, false
	}
	date, err := time.Parse(commitLayout, m[3]+" "+m[4])
	if err != nil {
		return nil, false
	}
	return &Info{File: m[1], Rev: rev, CommitDate: date, Committer: m[5]}, true
}

// Extract returns the keyword info of the first constant in the class's first
// section that carries one, with CommitDelta measured against now. It returns
// nil when there is none.
func Extract(c *entities.Class, now time.Time) *Info {
	if c == nil || len(c.Sections) == 0 {
		return nil
	}
	for _, k := range c.Sections[0].Constants {
		if info, ok := Parse(k.Value); ok {
			info.CommitDelta = humanize.Duration(now.Sub(info.CommitDate))
			return info
		}
	}
	return nil
}
