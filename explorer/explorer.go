// Package explorer drives the interactive menu loop: pick start and end
// pages, walk the shortest path, then branch into categories,
// recommendations, and degree reports. It reads and writes plain lines on
// the injected reader and writer, so the whole loop is scriptable in tests.
package explorer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"wiki-explorer/graph"
	"wiki-explorer/query"
	"wiki-explorer/wikiapi"
)

const defaultTopN = 3

type Explorer struct {
	graph   *graph.Graph
	engine  *query.Engine
	wiki    *wikiapi.Client
	session query.Session
	in      *bufio.Scanner
	out     io.Writer
	rand    *rand.Rand
	log     *zap.Logger
}

func New(g *graph.Graph, engine *query.Engine, wiki *wikiapi.Client, in io.Reader, out io.Writer, log *zap.Logger) *Explorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Explorer{
		graph:  g,
		engine: engine,
		wiki:   wiki,
		in:     bufio.NewScanner(in),
		out:    out,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    log,
	}
}

// Run loops on the main menu until the user exits or input runs out.
func (e *Explorer) Run(ctx context.Context) error {
	e.log.Debug("explorer started", zap.Int("pages", e.graph.Len()))
	fmt.Fprintln(e.out, "Welcome to the Wikipedia Explorer!")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if done := e.startNavigation(ctx); done {
			return nil
		}
	}
}

func (e *Explorer) startNavigation(ctx context.Context) (done bool) {
	fmt.Fprintln(e.out, "\nMain Menu:")
	fmt.Fprintln(e.out, "1. Enter Start and End Pages")
	fmt.Fprintln(e.out, "2. Pick Random Start and End Pages")
	fmt.Fprintln(e.out, "3. Exit")

	choice, ok := e.prompt("Choose an option (1-3): ")
	if !ok {
		return true
	}

	var start, end string
	switch choice {
	case "1":
		if start, ok = e.prompt("Enter the start page title: "); !ok {
			return true
		}
		if end, ok = e.prompt("Enter the end page title: "); !ok {
			return true
		}
	case "2":
		start, end, ok = e.randomPair()
		if !ok {
			fmt.Fprintln(e.out, "No valid pages with neighbors found in the graph.")
			return false
		}
	case "3":
		e.farewell()
		return true
	default:
		fmt.Fprintln(e.out, "Invalid choice. Please try again.")
		return false
	}

	e.printShortestPath(start, end)
	return e.exploreMenu(ctx)
}

// randomPair picks a start page that has at least one neighbor, and a
// random neighbor of it as the end page.
func (e *Explorer) randomPair() (start, end string, ok bool) {
	var candidates []string
	e.graph.Each(func(title string, out []string) {
		if len(out) > 0 {
			candidates = append(candidates, title)
		}
	})
	if len(candidates) == 0 {
		return "", "", false
	}
	start = candidates[e.rand.Intn(len(candidates))]
	out := e.graph.OutLinks(start)
	end = out[e.rand.Intn(len(out))]
	return start, end, true
}

func (e *Explorer) printShortestPath(start, end string) {
	path, err := e.engine.PathBetween(&e.session, start, end)
	if err != nil {
		fmt.Fprintln(e.out, "No path found between the given pages.")
		return
	}
	fmt.Fprintf(e.out, "\nShortest path (%d steps):\n", len(path)-1)
	fmt.Fprintln(e.out, strings.Join(path, " -> "))
}

func (e *Explorer) exploreMenu(ctx context.Context) (done bool) {
	for {
		fmt.Fprintln(e.out, "\nExplore Menu:")
		fmt.Fprintln(e.out, "1. Find another path")
		fmt.Fprintln(e.out, "2. Find common categories between two pages")
		fmt.Fprintln(e.out, "3. Get article recommendations based on a page")
		fmt.Fprintln(e.out, "4. Find in-degree and out-degree of a page")
		fmt.Fprintln(e.out, "5. Exit")

		choice, ok := e.prompt("Choose an option (1-5): ")
		if !ok {
			return true
		}

		switch choice {
		case "1":
			return false
		case "2":
			e.handleCommonCategories(ctx)
		case "3":
			e.handleRecommendations()
		case "4":
			e.handleDegrees()
		case "5":
			e.farewell()
			return true
		default:
			fmt.Fprintln(e.out, "\nInvalid choice. Please try again.")
		}
	}
}

func (e *Explorer) handleCommonCategories(ctx context.Context) {
	fmt.Fprintln(e.out, "\nFind Common Categories:")
	fmt.Fprintln(e.out, "1. Use the current Start and End pages")
	fmt.Fprintln(e.out, "2. Enter two new pages manually")

	choice, ok := e.prompt("Choose an option (1-2): ")
	if !ok {
		return
	}

	var title1, title2 string
	switch choice {
	case "1":
		if !e.session.HasStart() || !e.session.HasEnd() {
			fmt.Fprintln(e.out, "\nNo start and end pages have been set yet.")
			return
		}
		title1, title2 = e.session.StartPage, e.session.EndPage
	case "2":
		if title1, ok = e.prompt("\nEnter the first page title: "); !ok {
			return
		}
		if title2, ok = e.prompt("Enter the second page title: "); !ok {
			return
		}
	default:
		fmt.Fprintln(e.out, "\nInvalid choice. Returning to Explore Menu.")
		return
	}

	common := e.wiki.CommonCategories(ctx, title1, title2)
	if len(common) == 0 {
		fmt.Fprintf(e.out, "\nNo common categories found between %s and %s.\n", title1, title2)
		return
	}
	fmt.Fprintf(e.out, "\nCommon categories (%d) between %s and %s:\n", len(common), title1, title2)
	for _, category := range common {
		fmt.Fprintln(e.out, category)
	}
}

func (e *Explorer) handleRecommendations() {
	fmt.Fprintln(e.out, "\nGet Article Recommendations:")
	title, ok := e.pickPage()
	if !ok {
		return
	}

	topN := defaultTopN
	if raw, ok := e.prompt(fmt.Sprintf("\nHow many recommendations do you want to see? (default %d): ", defaultTopN)); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			topN = n
		}
	}

	recs, err := e.engine.Recommend(title, topN)
	switch {
	case err == query.ErrNotFound:
		fmt.Fprintf(e.out, "Page '%s' not found in the network.\n", title)
	case err == query.ErrNoRecommendations:
		fmt.Fprintf(e.out, "\nNo articles share links with '%s'. We couldn't find any recommendations.\n", title)
	case err != nil:
		fmt.Fprintf(e.out, "Recommendation failed: %v\n", err)
	default:
		fmt.Fprintf(e.out, "\nTop %d recommendations based on links for '%s':\n", topN, title)
		for _, rec := range recs {
			fmt.Fprintf(e.out, "Page: %s, Number of Shared Links: %d\n", rec.Title, rec.SharedLinks)
		}
	}
}

func (e *Explorer) handleDegrees() {
	fmt.Fprintln(e.out, "\nFind In/Out Degree of a Page:")
	title, ok := e.pickPage()
	if !ok {
		return
	}

	report := e.engine.Degrees(title)
	fmt.Fprintf(e.out, "\nPage: %s\n", title)
	fmt.Fprintf(e.out, "Out-degree (number of links to other pages): %d\n", report.OutDegree)
	fmt.Fprintf(e.out, "In-degree (number of links from other pages): %d\n", report.InDegree)
}

// pickPage offers the current start page, the current end page, or manual
// entry. Shared by the recommendation and degree handlers.
func (e *Explorer) pickPage() (string, bool) {
	fmt.Fprintln(e.out, "1. Use the current Start Page")
	fmt.Fprintln(e.out, "2. Use the current End Page")
	fmt.Fprintln(e.out, "3. Enter a new page manually")

	choice, ok := e.prompt("Choose an option (1-3): ")
	if !ok {
		return "", false
	}

	switch choice {
	case "1":
		if !e.session.HasStart() {
			fmt.Fprintln(e.out, "\nNo start page has been set yet.")
			return "", false
		}
		return e.session.StartPage, true
	case "2":
		if !e.session.HasEnd() {
			fmt.Fprintln(e.out, "\nNo end page has been set yet.")
			return "", false
		}
		return e.session.EndPage, true
	case "3":
		return e.prompt("\nEnter the page title: ")
	default:
		fmt.Fprintln(e.out, "\nInvalid choice. Returning to Explore Menu.")
		return "", false
	}
}

func (e *Explorer) prompt(label string) (string, bool) {
	fmt.Fprint(e.out, label)
	if !e.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(e.in.Text()), true
}

func (e *Explorer) farewell() {
	fmt.Fprintln(e.out, "\nYou have exited the explorer.\nThanks for exploring the world of Wikipedia pages!")
}
