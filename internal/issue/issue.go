// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	HashCollisionId Id = iota + 1
	HashlogNotFoundId
	HashlogCorruptId
	SourceUnreadableId
	OutputUnwritableId
	ConfigLoadFailedId
	UnknownHashId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external references listed under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render returns the issue as terminal Markdown in the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.MarkdownMsg()))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- [" + string(link) + "]\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	hashCollisionIssue = &Issue{
		id: HashCollisionId,
		mdMsg: `
# Hash collision detected!

Two different logging messages produce the same 32-bit hash. A decoder could
not tell them apart, so no .hashlog file was written.

## Things you can try:
- Reword one of the two messages (even a single character changes the hash)
- Check both call sites reported above; the second one is the newest
- Re-run the generator:
~~~
$ hashlog generate
~~~`,
		extLinks: []HttpLink{"http://www.isthe.com/chongo/tech/comp/fnv/"},
	}

	hashlogNotFoundIssue = &Issue{
		id: HashlogNotFoundId,
		mdMsg: `
# No .hashlog found!

We looked for a .hashlog file in the current directory and in every parent
directory.

## Things you can try:
- Generate one from the project root:
~~~
$ cd /path/to/project
$ hashlog generate
~~~

- Or point at an existing file:
~~~
$ hashlog view --hashlog /path/to/.hashlog
~~~`,
	}

	hashlogCorruptIssue = &Issue{
		id: HashlogCorruptId,
		mdMsg: `
# The .hashlog file is malformed!

The file is shorter than its record count says, has bytes after the last
record, or stores a message that is not valid UTF-8.

## Things you can try:
- The file is always re-derivable from source; regenerate it:
~~~
$ hashlog generate
~~~
- Make sure the file was not produced by an incompatible tool version`,
	}

	sourceUnreadableIssue = &Issue{
		id: SourceUnreadableId,
		mdMsg: `
# A source file could not be read!

Every matching file in the tree must be scanned, otherwise messages would be
silently missing from the .hashlog.

## Things you can try:
- Check the permissions of the file or directory reported above
- Exclude generated or foreign trees by running from a narrower directory:
~~~
$ hashlog generate -C src
~~~`,
	}

	outputUnwritableIssue = &Issue{
		id: OutputUnwritableId,
		mdMsg: `
# Failed to write the .hashlog file!

## Things you can try:
- Check that the output directory exists and is writable
- Check the free disk space
- Choose another destination:
~~~
$ hashlog generate --output /tmp/.hashlog
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your configuration file
- Show where configuration is read from:
~~~
$ hashlog config path
~~~
- Print the effective configuration:
~~~
$ hashlog config show
~~~`,
	}

	unknownHashIssue = &Issue{
		id: UnknownHashId,
		mdMsg: `
# Unknown hash!

At least one hash is not present in the .hashlog file.

## Things you can try:
- Regenerate the .hashlog from the same sources the binary was built from
- Check that you are reading the .hashlog of the right project`,
	}

	issues = map[Id]*Issue{
		hashCollisionIssue.Id():    hashCollisionIssue,
		hashlogNotFoundIssue.Id():  hashlogNotFoundIssue,
		hashlogCorruptIssue.Id():   hashlogCorruptIssue,
		sourceUnreadableIssue.Id(): sourceUnreadableIssue,
		outputUnwritableIssue.Id(): outputUnwritableIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		unknownHashIssue.Id():      unknownHashIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
