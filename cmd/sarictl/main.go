// Command sarictl is the terminal client for a saristock server. Mutating
// commands record what they did in a local history ledger, which stays on
// this machine and never reaches the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mandaniarchi41/sarii-stock/internal/client"
	"github.com/mandaniarchi41/sarii-stock/internal/ledger"
	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/stock"
)

const (
	defaultServer  = "http://localhost:8080"
	defaultHistory = "sarictl-history.sqlite3"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = cmdList(os.Args[2:])
	case "get":
		err = cmdGet(os.Args[2:])
	case "add":
		err = cmdAdd(os.Args[2:])
	case "update":
		err = cmdUpdate(os.Args[2:])
	case "delete":
		err = cmdDelete(os.Args[2:])
	case "alerts":
		err = cmdAlerts(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "-h", "-help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stdout, `Usage: sarictl <command> [flags]

Commands:
  list [-q substring]       list items, optionally filtered by catalog number or name
  get <id>                  show one item
  add [flags]               add an item (-catalog, -name, -price, -image, -color)
  update <id> [flags]       edit an item with conflict retry (-stock, -min, -color, ...)
  delete <id>               delete an item
  alerts                    show colors below their minimum stock
  history [-rm <entry-id>]  show or prune the local change history

Common flags:
  -server <url>             server base URL (default: http://localhost:8080)
  -history <path>           local history database (default: sarictl-history.sqlite3)
`)
}

// colorSpec is a repeatable -color flag: name=stock/minStock[/imageRef].
type colorSpec []stock.ColorDraft

func (c *colorSpec) String() string { return fmt.Sprintf("%d colors", len(*c)) }

func (c *colorSpec) Set(value string) error {
	name, levels, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected name=stock/minStock, got %q", value)
	}
	parts := strings.SplitN(levels, "/", 3)
	draft := stock.ColorDraft{ColorName: name, Stock: parts[0], MinStock: "0"}
	if len(parts) > 1 {
		draft.MinStock = parts[1]
	}
	if len(parts) > 2 {
		draft.ColorImageRef = parts[2]
	}
	*c = append(*c, draft)
	return nil
}

// adjustments is a repeatable Color=N flag for -stock and -min.
type adjustments map[string]string

func (a adjustments) String() string { return fmt.Sprintf("%d adjustments", len(a)) }

func (a adjustments) Set(value string) error {
	name, level, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected Color=N, got %q", value)
	}
	a[name] = level
	return nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	query := fs.String("q", "", "substring filter on catalog number or name")
	fs.Parse(args)

	items, err := client.New(*server).List(context.Background())
	if err != nil {
		return err
	}

	needle := strings.ToLower(*query)
	shown := 0
	for _, item := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.CatalogNumber), needle) &&
			!strings.Contains(strings.ToLower(item.DisplayName), needle) {
			continue
		}
		total := 0
		marker := ""
		for _, v := range item.ColorVariants {
			total += v.Stock
			if v.LowStock() {
				marker = "  LOW"
			}
		}
		fmt.Printf("%-36s  %-12s  %-24s  %8.2f  %4d%s\n",
			item.ID, item.CatalogNumber, item.DisplayName, item.Price, total, marker)
		shown++
	}
	if shown == 0 {
		fmt.Println("no items")
	}
	return nil
}

func cmdGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: sarictl get <id>")
	}

	item, err := client.New(*server).Get(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	printItem(item)
	return nil
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	historyPath := fs.String("history", defaultHistory, "local history database")
	catalog := fs.String("catalog", "", "catalog number")
	name := fs.String("name", "", "display name")
	price := fs.String("price", "", "price")
	image := fs.String("image", "", "image reference (URL or data URL)")
	var colors colorSpec
	fs.Var(&colors, "color", "color variant, name=stock/minStock[/imageRef] (repeatable)")
	fs.Parse(args)

	draft := stock.ItemDraft{
		CatalogNumber: *catalog,
		DisplayName:   *name,
		Price:         *price,
		ImageRef:      *image,
		ColorVariants: colors,
	}
	validated, ferrs := stock.Validate(draft)
	if ferrs != nil {
		return fieldErrorList(ferrs)
	}

	ctx := context.Background()
	created, err := client.New(*server).Add(ctx, validated)
	if err != nil {
		return err
	}

	fmt.Printf("added %s (%s)\n", created.CatalogNumber, created.ID)

	// Nonzero initial levels are history-worthy; an all-zero item is not.
	if changes := stock.InitialChanges(created.ColorVariants); len(changes) > 0 {
		return appendHistory(ctx, *historyPath, model.HistoryEntry{
			ItemID:   created.ID,
			Action:   model.ActionStockUpdate,
			Changes:  changes,
			Snapshot: created.Snapshot(),
		})
	}
	return nil
}

func cmdUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	historyPath := fs.String("history", defaultHistory, "local history database")
	catalog := fs.String("catalog", "", "catalog number")
	name := fs.String("name", "", "display name")
	price := fs.String("price", "", "price")
	image := fs.String("image", "", "image reference (URL or data URL)")
	var colors colorSpec
	fs.Var(&colors, "color", "replace the full color list, name=stock/minStock[/imageRef] (repeatable)")
	stockAdj := adjustments{}
	fs.Var(stockAdj, "stock", "set stock for one color, Color=N (repeatable)")
	minAdj := adjustments{}
	fs.Var(minAdj, "min", "set minimum stock for one color, Color=N (repeatable)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: sarictl update <id> [flags]")
	}

	ctx := context.Background()
	c := client.New(*server)

	prior, err := c.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	draft := stock.DraftFromItem(prior)
	if *catalog != "" {
		draft.CatalogNumber = *catalog
	}
	if *name != "" {
		draft.DisplayName = *name
	}
	if *price != "" {
		draft.Price = *price
	}
	if *image != "" {
		draft.ImageRef = *image
	}
	if len(colors) > 0 {
		draft.ColorVariants = colors
	}
	for i := range draft.ColorVariants {
		if level, ok := stockAdj[draft.ColorVariants[i].ColorName]; ok {
			draft.ColorVariants[i].Stock = level
			delete(stockAdj, draft.ColorVariants[i].ColorName)
		}
		if level, ok := minAdj[draft.ColorVariants[i].ColorName]; ok {
			draft.ColorVariants[i].MinStock = level
			delete(minAdj, draft.ColorVariants[i].ColorName)
		}
	}
	for color := range stockAdj {
		return fmt.Errorf("no color %q on this item", color)
	}
	for color := range minAdj {
		return fmt.Errorf("no color %q on this item", color)
	}

	saver := &stock.Saver{Store: c, RetryDelay: stock.DefaultRetryDelay}
	result, err := saver.Save(ctx, prior, draft)
	if ferrs, ok := stock.AsFieldErrors(err); ok {
		return fieldErrorList(ferrs)
	}
	if errors.Is(err, stock.ErrConflictExhausted) {
		return fmt.Errorf("too many concurrent edits, item unchanged — refetch and try again: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("updated %s (version %d)\n", result.Item.CatalogNumber, result.Item.Version)
	printChanges(result.Changes)

	entry := model.HistoryEntry{
		ItemID:   result.Item.ID,
		Action:   model.ActionUpdate,
		Snapshot: result.Item.Snapshot(),
	}
	if len(result.Changes) > 0 {
		entry.Action = model.ActionStockUpdate
		entry.Changes = result.Changes
	}
	return appendHistory(ctx, *historyPath, entry)
}

func cmdDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	historyPath := fs.String("history", defaultHistory, "local history database")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: sarictl delete <id>")
	}

	ctx := context.Background()
	deleted, err := client.New(*server).Delete(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("deleted %s (%s)\n", deleted.CatalogNumber, deleted.DisplayName)

	return appendHistory(ctx, *historyPath, model.HistoryEntry{
		ItemID:   deleted.ID,
		Action:   model.ActionDelete,
		Snapshot: deleted.Snapshot(),
	})
}

func cmdAlerts(args []string) error {
	fs := flag.NewFlagSet("alerts", flag.ExitOnError)
	server := fs.String("server", defaultServer, "server base URL")
	fs.Parse(args)

	items, err := client.New(*server).List(context.Background())
	if err != nil {
		return err
	}

	alerts := stock.DeriveAlerts(items)
	if len(alerts) == 0 {
		fmt.Println("no low-stock alerts")
		return nil
	}
	for _, a := range alerts {
		fmt.Printf("%-12s  %-24s  %-16s  stock %d (min %d)\n",
			a.CatalogNumber, a.DisplayName, a.ColorName, a.CurrentStock, a.MinimumStock)
	}
	return nil
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	historyPath := fs.String("history", defaultHistory, "local history database")
	remove := fs.String("rm", "", "remove the entry with this ID")
	fs.Parse(args)

	ctx := context.Background()
	l, err := ledger.Open(*historyPath)
	if err != nil {
		return err
	}
	defer l.Close()

	if *remove != "" {
		if err := l.Remove(ctx, *remove); err != nil {
			return err
		}
		fmt.Printf("removed entry %s\n", *remove)
		return nil
	}

	entries, err := l.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no history")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %-12s  %s (%s)\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action,
			e.Snapshot.DisplayName, e.Snapshot.CatalogNumber)
		printChanges(e.Changes)
	}
	return nil
}

func appendHistory(ctx context.Context, path string, entry model.HistoryEntry) error {
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()
	_, err = l.Append(ctx, entry)
	return err
}

func printItem(item *model.Item) {
	fmt.Printf("ID:       %s\n", item.ID)
	fmt.Printf("Catalog:  %s\n", item.CatalogNumber)
	fmt.Printf("Name:     %s\n", item.DisplayName)
	fmt.Printf("Price:    %.2f\n", item.Price)
	fmt.Printf("Version:  %d\n", item.Version)
	if item.ImageRef != "" && !strings.HasPrefix(item.ImageRef, "data:") {
		fmt.Printf("Image:    %s\n", item.ImageRef)
	}
	fmt.Println("Colors:")
	for _, v := range item.ColorVariants {
		marker := ""
		if v.LowStock() {
			marker = "  LOW"
		}
		fmt.Printf("  %-16s  stock %d (min %d)%s\n", v.ColorName, v.Stock, v.MinStock, marker)
	}
}

func printChanges(changes []model.ColorChange) {
	for _, ch := range changes {
		line := fmt.Sprintf("    %s: %d -> %d", ch.ColorName, ch.OldStock, ch.NewStock)
		if ch.OldMinStock != nil && ch.NewMinStock != nil && *ch.OldMinStock != *ch.NewMinStock {
			line += fmt.Sprintf(" (min %d -> %d)", *ch.OldMinStock, *ch.NewMinStock)
		}
		fmt.Println(line)
	}
}

func fieldErrorList(ferrs stock.FieldErrors) error {
	fields := make([]string, 0, len(ferrs))
	for field := range ferrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("invalid item:")
	for _, field := range fields {
		b.WriteString("\n  ")
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(ferrs[field])
	}
	return errors.New(b.String())
}
