// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"errors"
	"io/fs"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/pkgplan/pkgplan/pkg/buildplan"
	"github.com/pkgplan/pkgplan/pkg/manifest"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	MalformedManifestId
	UnsupportedFormatId
	UnknownDependencyId
	DependencyCycleId
	UnknownTargetId
	UnknownProductId
	PlatformConstraintId
	ConfigLoadFailedId
	InvalidOutputFormatId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guide with glamour. stylePath is a glamour style name
// ("dark", "light", "notty", ...) or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest not found!

pkgplan could not read the manifest you asked it to resolve.

## Where pkgplan looks:
1. The path given on the command line
2. The ` + "`manifest`" + ` key of your configuration
3. ` + "`pkgplan.cue`" + ` in the current directory

## Things you can try:
- Pass the manifest explicitly:
~~~
$ pkgplan resolve ./Package.cue
~~~

- Check the configured default:
~~~
$ pkgplan config show
~~~`,
	}

	malformedManifestIssue = &Issue{
		id: MalformedManifestId,
		mdMsg: `
# Malformed manifest!

The manifest does not have the expected structure.

## Common issues:
- A required field is missing (every target needs ` + "`name`" + ` and ` + "`kind`" + `)
- A binary target has no ` + "`path`" + `
- Two targets (or two products) share a name
- A product exposes no targets
- A field name is misspelled; unknown fields are rejected

## Example of a valid manifest:
~~~cue
name: "LynxSPM"
platforms: [{family: "ios", min_version: "13.0"}]
products: [{name: "Lynx", targets: ["Lynx"]}]
targets: [
	{name: "PrimJS", kind: "binary", path: "./Sources/PrimJS.xcframework"},
	{name: "Lynx", kind: "binary", path: "./Sources/Lynx.xcframework", dependencies: ["PrimJS"]},
]
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported manifest format!

The manifest format is chosen from the file extension.

## Supported extensions:
- ` + "`.cue`" + `, ` + "`.json`" + `
- ` + "`.yaml`" + `, ` + "`.yml`" + `
- ` + "`.toml`" + `
- ` + "`.hcl`" + `

## Things you can try:
- Rename the file, or convert it to one of the formats above`,
	}

	unknownDependencyIssue = &Issue{
		id: UnknownDependencyId,
		mdMsg: `
# Unknown dependency!

A target depends on a name that no target in this manifest declares.
Dependencies only refer to targets of the same manifest.

## Things you can try:
- Check the spelling of the dependency (names are case-sensitive)
- Declare the missing target, or remove the dependency
- List the declared targets:
~~~
$ pkgplan order
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Your targets depend on each other in a loop, so no link order exists.

## Example of a cycle:
~~~cue
targets: [
	{name: "A", kind: "aggregate", dependencies: ["B"]},
	{name: "B", kind: "aggregate", dependencies: ["A"]}, // A -> B -> A
]
~~~

## Things you can try:
- Follow the cycle printed above and remove one of its edges
- Move shared code into a separate target both sides depend on`,
	}

	unknownTargetIssue = &Issue{
		id: UnknownTargetId,
		mdMsg: `
# Product exposes an unknown target!

Every target a product lists must be declared in the ` + "`targets`" + ` section.

## Things you can try:
- Check the spelling of the target in the product
- Declare the target, or drop it from the product`,
	}

	unknownProductIssue = &Issue{
		id: UnknownProductId,
		mdMsg: `
# Product not found!

The product you asked for is not declared in this manifest.

## Things you can try:
- List the declared products:
~~~
$ pkgplan products
~~~

- Resolve every product by omitting ` + "`--product`" + `
~~~
$ pkgplan resolve
~~~`,
	}

	platformConstraintIssue = &Issue{
		id: PlatformConstraintId,
		mdMsg: `
# Platform floor violated!

A target deploys below a minimum version it must honour:

- the package floor declared in ` + "`platforms`" + `, or
- the effective floor of one of its dependencies

Versions compare numerically, so ` + "`13`" + `, ` + "`13.0`" + ` and ` + "`13.0.0`" + ` are equal.

## Things you can try:
- Raise the target's own ` + "`platforms`" + ` entry
- Remove the target's override so it inherits the package floor
- Lower the dependency's floor if it really supports older systems`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pkgplan configuration file.

## Configuration file locations:
- Linux: ~/.config/pkgplan/config.cue
- macOS: ~/Library/Application Support/pkgplan/config.cue
- Windows: %APPDATA%\pkgplan\config.cue

## Things you can try:
- Show where pkgplan looks:
~~~
$ pkgplan config path
~~~

- Check the configuration syntax, or remove the file to use defaults

## Example configuration:
~~~cue
manifest: "Package.cue"
output:   "json"
ui: {
	verbose: false
	color:   true
}
watch: debounce: "500ms"
~~~`,
	}

	invalidOutputFormatIssue = &Issue{
		id: InvalidOutputFormatId,
		mdMsg: `
# Invalid output format!

## Valid formats:
- **text**: aligned tables for people
- **json**: indented JSON
- **yaml**
- **toml**

## Example:
~~~
$ pkgplan resolve -o json
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		malformedManifestIssue.Id():   malformedManifestIssue,
		unsupportedFormatIssue.Id():   unsupportedFormatIssue,
		unknownDependencyIssue.Id():   unknownDependencyIssue,
		dependencyCycleIssue.Id():     dependencyCycleIssue,
		unknownTargetIssue.Id():       unknownTargetIssue,
		unknownProductIssue.Id():      unknownProductIssue,
		platformConstraintIssue.Id():  platformConstraintIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidOutputFormatIssue.Id(): invalidOutputFormatIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError picks the guide matching the most specific failure in err's
// chain, or nil when none applies.
func ForError(err error) *Issue {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return Get(ManifestNotFoundId)
	case errors.Is(err, manifest.ErrUnsupportedFormat):
		return Get(UnsupportedFormatId)
	case errors.Is(err, manifest.ErrMalformedManifest):
		return Get(MalformedManifestId)
	case errors.Is(err, manifest.ErrUnknownDependency):
		return Get(UnknownDependencyId)
	case errors.Is(err, manifest.ErrCyclicDependency):
		return Get(DependencyCycleId)
	case errors.Is(err, manifest.ErrUnknownTarget):
		return Get(UnknownTargetId)
	case errors.Is(err, manifest.ErrUnknownProduct):
		return Get(UnknownProductId)
	case errors.Is(err, manifest.ErrPlatformConstraint):
		return Get(PlatformConstraintId)
	case errors.Is(err, buildplan.ErrInvalidFormat):
		return Get(InvalidOutputFormatId)
	default:
		return nil
	}
}
