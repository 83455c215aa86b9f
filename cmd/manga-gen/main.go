// Command manga-gen generates an info.toml skeleton for a work directory:
// a fresh UUID, the directory name as title, a detected cover.* file, and
// the remaining entries sorted alphabetically into chapters.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/banux/manga-server/internal/descriptor"
)

const usage = `manga-gen [options] [path]

Generates an info.toml skeleton for the work directory at [path]
(default: current directory) and writes it to stdout.

  --titles <t1> <t2> ...   chapter titles, in chapter order
  --titles-file <file>     chapter titles, one per line
  -h, --help               print this message and exit
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var path string
	var titles []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			fmt.Fprint(os.Stdout, usage)
			return nil
		case "--titles":
			for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				titles = append(titles, args[i])
			}
		case "--titles-file":
			i++
			if i >= len(args) {
				return fmt.Errorf("--titles-file requires a file path")
			}
			fileTitles, err := readTitlesFile(args[i])
			if err != nil {
				return err
			}
			titles = append(titles, fileTitles...)
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument %q", args[i])
			}
			path = args[i]
		}
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getwd: %w", err)
		}
		path = wd
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read directory %q: %w", path, err)
	}

	var cover string
	dupCover := false
	var chapters []string
	for _, e := range entries {
		name := e.Name()
		if name == "info.toml" {
			continue
		}
		if strings.HasPrefix(name, "cover.") {
			if info, err := e.Info(); err == nil && info.Mode().IsRegular() {
				if cover != "" {
					dupCover = true
				}
				cover = name
				continue
			}
		}
		chapters = append(chapters, name)
	}
	if dupCover {
		fmt.Fprintln(os.Stderr, "warning: duplicate covers, picking one arbitrarily")
	}
	sort.Strings(chapters)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	fmt.Fprintf(out, "id = %s\n", tomlString(uuid.NewString()))
	title := filepath.Base(path)
	fmt.Fprintf(out, "title = %s\n", tomlString(title))
	if cover != "" {
		fmt.Fprintf(out, "cover = %s\n", tomlString(cover))
	}
	fmt.Fprint(out, "status = \"unknown\"\n")
	fmt.Fprint(out, "description = \"<description here>\"\n")
	fmt.Fprint(out, "authors = []\n")
	fmt.Fprint(out, "artists = []\n")
	fmt.Fprint(out, "tags = []\n")

	fmt.Fprintln(out, "chapters = [")
	for i, ch := range chapters {
		chapterTitle := ch
		if i < len(titles) {
			chapterTitle = titles[i]
		}
		fmt.Fprintf(out, "    { path = %s, title = %s },\n", tomlString(ch), tomlString(chapterTitle))
	}
	fmt.Fprintln(out, "]")

	return nil
}

func readTitlesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open titles file %q: %w", path, err)
	}
	defer f.Close()

	var titles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		titles = append(titles, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read titles file %q: %w", path, err)
	}
	return titles, nil
}

func tomlString(s string) string {
	return `"` + descriptor.EscapeTOMLString(s) + `"`
}
