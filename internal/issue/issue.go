// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ArchiveUnreadableId Id = iota + 1
	OutputRootNotEmptyId
	ConfigLoadFailedId
	ConfigWriteFailedId
	WritesFailingId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	archiveUnreadableIssue = &Issue{
		id: ArchiveUnreadableId,
		mdMsg: `
# Could not open the bulk archive!

The file you passed to ` + "`toltool unpack`" + ` is not a readable zip archive.

## Common causes:
- The download from the LMS was interrupted — the file is truncated
- The path points at the wrong file (e.g., a single submission, not the bulk export)
- The export is still being generated server-side

## Things you can try:
- Re-download the bulk export from the LMS and retry
- Check the file size against what the LMS reports
- Inspect the file:
~~~
$ unzip -l <archive>
~~~`,
	}

	outputRootNotEmptyIssue = &Issue{
		id: OutputRootNotEmptyId,
		mdMsg: `
# Output directory is not empty!

toltool refuses to unpack into a directory that already has files in it, so
a previous run (or unrelated files) cannot be silently mixed with this one.

## Things you can try:
- Point at a fresh directory:
~~~
$ toltool unpack submissions.zip --output ./graded/week3
~~~

- Or merge into the existing directory; files already on disk are kept and
  clashing names get a numbered suffix:
~~~
$ toltool unpack submissions.zip --merge
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the toltool configuration file.

## Configuration file locations:
- Linux: ~/.config/toltool/config.toml
- macOS: ~/Library/Application Support/toltool/config.toml
- Windows: %APPDATA%\toltool\config.toml

## Things you can try:
- Re-create a default configuration:
~~~
$ toltool config init
~~~

- Check the TOML syntax
- Remove the config file to use defaults

## Example configuration:
~~~toml
output_root = "submissions"
max_depth = 3
on_existing = "fail"

[ui]
verbose = false
~~~`,
	}

	configWriteFailedIssue = &Issue{
		id: ConfigWriteFailedId,
		mdMsg: `
# Failed to write configuration!

Could not create the default toltool configuration file.

## Common causes:
- A config file already exists (init never overwrites)
- The config directory is not writable

## Things you can try:
- Show where the file would go:
~~~
$ toltool config path
~~~

- Remove the existing file first if you want a fresh one`,
	}

	writesFailingIssue = &Issue{
		id: WritesFailingId,
		mdMsg: `
# Destination writes are failing!

Several files in a row could not be written, so the run was aborted rather
than silently dropping the rest of the archive.

## Common causes:
- The disk holding the output directory is full
- The output directory is read-only or owned by another user

## Things you can try:
- Check free space:
~~~
$ df -h <output directory>
~~~

- Check permissions on the output directory
- Re-run into a different directory with --output`,
	}

	issues = map[Id]*Issue{
		archiveUnreadableIssue.Id():  archiveUnreadableIssue,
		outputRootNotEmptyIssue.Id(): outputRootNotEmptyIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		configWriteFailedIssue.Id():  configWriteFailedIssue,
		writesFailingIssue.Id():      writesFailingIssue,
	}
)

func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int {
		return int(a.id - b.id)
	})
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
