package app

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vk/verapi/internal/facade"
	"github.com/vk/verapi/internal/loader"
	"sigs.k8s.io/yaml"
)

// Report describes the whole registry.
type Report struct {
	Product    string         `json:"product"`
	SDKVersion string         `json:"sdk_version,omitempty"`
	Namespace  string         `json:"namespace"`
	Latest     string         `json:"latest,omitempty"`
	Bundles    []BundleReport `json:"bundles"`
}

// BundleReport describes one registered version.
type BundleReport struct {
	Version string      `json:"version"`
	Code    int         `json:"code"`
	Latest  bool        `json:"latest"`
	Keys    []string    `json:"keys"`
	APIs    []APIReport `json:"apis"`
}

// APIReport describes how one name resolved within a bundle.
type APIReport struct {
	Name       string        `json:"name"`
	Resolved   bool          `json:"resolved"`
	Version    string        `json:"version,omitempty"`
	Kind       string        `json:"kind,omitempty"`
	FromLatest bool          `json:"from_latest,omitempty"`
	Probes     []ProbeReport `json:"probes,omitempty"`
}

// ProbeReport describes one candidate module path.
type ProbeReport struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// Report builds a description of every registered bundle.
func (a *App) Report() Report {
	r := Report{
		Product:    a.registry.Product(),
		SDKVersion: a.model.SDKVersion,
		Namespace:  a.model.Namespace,
	}
	if latest, ok := a.registry.Latest(); ok {
		r.Latest = latest.Version()
	}
	for _, b := range a.registry.Bundles() {
		r.Bundles = append(r.Bundles, a.bundleReport(b))
	}
	return r
}

// BundleReport describes the bundle selected by a version query such as
// "2", "2.1.0", "#20100" or "latest".
func (a *App) BundleReport(query string) (BundleReport, error) {
	b, err := a.registry.Resolve(query)
	if err != nil {
		return BundleReport{}, err
	}
	return a.bundleReport(b), nil
}

// APIReport describes name within the bundle selected by query. It returns a
// *facade.NameNotFoundError when the name is not available there.
func (a *App) APIReport(query, name string) (APIReport, error) {
	b, err := a.registry.Resolve(query)
	if err != nil {
		return APIReport{}, err
	}
	if _, err := b.Get(name); err != nil {
		return APIReport{}, err
	}
	for _, res := range a.registry.Trace(b) {
		if res.Name == name {
			return apiReport(res), nil
		}
	}
	return APIReport{}, &facade.NameNotFoundError{Product: b.Product(), Name: name, Version: b.Version()}
}

func (a *App) bundleReport(b *facade.Bundle) BundleReport {
	br := BundleReport{
		Version: b.Version(),
		Code:    b.VersionNum(),
	}
	if latest, ok := a.registry.Latest(); ok {
		br.Latest = latest == b
	}
	for _, k := range a.registry.Keys() {
		if owner, ok := a.registry.Lookup(k); ok && owner == b {
			br.Keys = append(br.Keys, string(k))
		}
	}
	for _, res := range a.registry.Trace(b) {
		br.APIs = append(br.APIs, apiReport(res))
	}
	return br
}

func apiReport(res loader.Resolution) APIReport {
	ar := APIReport{Name: res.Name, FromLatest: res.FromLatest}
	if res.Proxy != nil {
		ar.Resolved = true
		ar.Version = res.Proxy.Version()
		ar.Kind = res.Proxy.Kind().String()
	}
	for _, p := range res.Probes {
		pr := ProbeReport{Path: p.Path, Outcome: p.Outcome.String()}
		if p.Err != nil && p.Outcome == loader.ProbeError {
			pr.Error = p.Err.Error()
		}
		ar.Probes = append(ar.Probes, pr)
	}
	return ar
}

// Describe writes the registry report in the given format: text, yaml or json.
func (a *App) Describe(w io.Writer, format string) error {
	report := a.Report()
	switch format {
	case "", "text":
		return writeText(w, report)
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, r Report) error {
	fmt.Fprintf(w, "%s (sdk %s), namespace %s, latest %s\n", r.Product, r.SDKVersion, r.Namespace, r.Latest)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range r.Bundles {
		marker := ""
		if b.Latest {
			marker = " [latest]"
		}
		fmt.Fprintf(tw, "\nversion %s (#%d)%s keys: %v\n", b.Version, b.Code, marker, b.Keys)
		for _, api := range b.APIs {
			if !api.Resolved {
				fmt.Fprintf(tw, "  %s\t-\tmissing\t\n", api.Name)
				continue
			}
			source := ""
			if api.FromLatest {
				source = "from latest"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", api.Name, api.Version, api.Kind, source)
		}
	}
	return tw.Flush()
}
