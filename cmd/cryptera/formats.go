package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/cryptera"
	"github.com/zoobzio/cryptera/bson"
	"github.com/zoobzio/cryptera/json"
	"github.com/zoobzio/cryptera/msgpack"
	"github.com/zoobzio/cryptera/xml"
	"github.com/zoobzio/cryptera/yaml"
)

// formatRaw writes bare blobs instead of envelopes.
const formatRaw = "raw"

var envelopeFormats = map[string]func() cryptera.Format{
	"json":    json.New,
	"yaml":    yaml.New,
	"xml":     xml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
}

// lookupFormat returns the envelope format registered under name.
func lookupFormat(name string) (cryptera.Format, error) {
	newFormat, ok := envelopeFormats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want %s or one of %s)",
			name, formatRaw, strings.Join(formatNames(), ", "))
	}
	return newFormat(), nil
}

func formatNames() []string {
	names := make([]string, 0, len(envelopeFormats))
	for name := range envelopeFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
