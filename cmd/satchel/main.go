// Command satchel validates item documents and converts them between
// encodings.
//
//	satchel -from json -to yaml < sword.json
//	satchel -in potion.nbt -from nbt -preview
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sandertv/gophertunnel/minecraft/text"
	log "github.com/sirupsen/logrus"
	"github.com/zoobzio/satchel"
	"github.com/zoobzio/satchel/bson"
	"github.com/zoobzio/satchel/document"
	"github.com/zoobzio/satchel/json"
	"github.com/zoobzio/satchel/msgpack"
	"github.com/zoobzio/satchel/nbt"
	"github.com/zoobzio/satchel/xml"
	"github.com/zoobzio/satchel/yaml"
)

var codecs = map[string]func() document.Codec{
	"json":        json.New,
	"yaml":        yaml.New,
	"msgpack":     msgpack.New,
	"bson":        bson.New,
	"xml":         xml.New,
	"nbt":         nbt.New,
	"nbt-network": nbt.NewNetwork,
}

func codecNames() string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func codecFor(name string) (document.Codec, error) {
	newCodec, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q (want one of %s)", name, codecNames())
	}
	return newCodec(), nil
}

type options struct {
	in      string
	from    string
	to      string
	catalog string
	preview bool
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("satchel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "-", "input file, - for stdin")
	fs.StringVar(&o.from, "from", "json", "input encoding: "+codecNames())
	fs.StringVar(&o.to, "to", "", "output encoding, empty to skip output")
	fs.StringVar(&o.catalog, "catalog", "", "catalog YAML file, default catalog when empty")
	fs.BoolVar(&o.preview, "preview", false, "print the display name and lore with colours")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.New()
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "15:04:05"
	formatter.FullTimestamp = true
	logger.SetFormatter(formatter)
	logger.SetOutput(w)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func loadCatalog(path string) (*satchel.Catalog, error) {
	if path == "" {
		return satchel.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return satchel.LoadCatalog(f)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// preview renders an item's display text with colour codes as ANSI escapes.
func preview(it *satchel.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s x%d", it.Material, it.Amount)
	if it.Durability != 0 {
		fmt.Fprintf(&b, " (damage %d)", it.Durability)
	}
	b.WriteByte('\n')
	if !it.HasMeta() {
		return b.String()
	}

	base := it.Meta.Base()
	if base.HasDisplayName() {
		b.WriteString(text.ANSI(satchel.TranslateColors(base.DisplayName) + "§r"))
		b.WriteByte('\n')
	}
	for _, line := range base.Lore {
		b.WriteString("  ")
		b.WriteString(text.ANSI(satchel.TranslateColors(line) + "§r"))
		b.WriteByte('\n')
	}
	for _, e := range base.Enchants.Sorted() {
		fmt.Fprintf(&b, "  %s %d\n", e.Name, base.Enchants[e])
	}
	switch m := it.Meta.(type) {
	case *satchel.BookMeta:
		for _, e := range m.Stored.Sorted() {
			fmt.Fprintf(&b, "  stored %s %d\n", e.Name, m.Stored[e])
		}
	case *satchel.PotionMeta:
		for _, e := range m.Effects {
			fmt.Fprintf(&b, "  effect %s %d for %d ticks\n", e.Type.Name, e.Amplifier, e.Duration)
		}
	}
	return b.String()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := newLogger(stderr, o.verbose)

	from, err := codecFor(o.from)
	if err != nil {
		logger.WithError(err).Error("invalid -from")
		return 1
	}
	var to document.Codec
	if o.to != "" {
		if to, err = codecFor(o.to); err != nil {
			logger.WithError(err).Error("invalid -to")
			return 1
		}
	}

	catalog, err := loadCatalog(o.catalog)
	if err != nil {
		logger.WithError(err).WithField("catalog", o.catalog).Error("load catalog")
		return 1
	}
	materials, enchantments, effects := catalog.Len()
	logger.WithFields(log.Fields{
		"materials":    materials,
		"enchantments": enchantments,
		"effects":      effects,
	}).Debug("catalog ready")

	data, err := readInput(o.in, stdin)
	if err != nil {
		logger.WithError(err).WithField("in", o.in).Error("read input")
		return 1
	}

	ctx := context.Background()
	it, err := satchel.NewSerializer(from, satchel.WithCatalog(catalog)).Load(ctx, data)
	if err != nil {
		logger.WithError(err).WithField("encoding", o.from).Error("decode item")
		return 1
	}
	logger.WithFields(log.Fields{
		"material":    it.Material,
		"amount":      it.Amount,
		"fingerprint": satchel.Fingerprint(it),
	}).Debug("item decoded")

	if o.preview {
		fmt.Fprint(stdout, preview(it))
	}
	if to != nil {
		out, err := satchel.NewSerializer(to, satchel.WithCatalog(catalog)).Store(ctx, it)
		if err != nil {
			logger.WithError(err).WithField("encoding", o.to).Error("encode item")
			return 1
		}
		if _, err := stdout.Write(out); err != nil {
			logger.WithError(err).Error("write output")
			return 1
		}
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
