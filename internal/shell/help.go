// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"sqlsh/cli/internal/logging"
)

const defaultScreenWidth = 79

// helpTopic is one entry of the .help output: the commands it covers, a
// usage line, and descriptive text that is re-wrapped to the screen width.
type helpTopic struct {
	commands []string
	usage    string
	text     string
}

var helpTopics = []helpTopic{
	{
		commands: []string{".exit", ".quit"},
		usage:    ".exit or .quit or Ctrl-D",
		text:     "Quit sqlsh.",
	},
	{
		commands: []string{".connect"},
		usage:    ".connect <name>",
		text: `Connect to a different database. <name> is either a full database URL or
the name of a section in the configuration file. If <name> is a configuration
file section, you only need to specify enough of the string to be unique. If
it's not unique, you'll see an error message, and the current database will
not be changed.`,
	},
	{
		commands: []string{".export"},
		usage:    ".export <table> <path>",
		text: `Export the contents of table to a file. If <path> ends in ".csv", the table
will be exported to a CSV file. If <path> ends in ".json", the table will be
dumped in JSON Lines format, with each row as a JSON object in the file. You
can use ~ in your paths as a shorthand for your home directory (e.g.,
"~/table.json").`,
	},
	{
		commands: []string{".fk"},
		usage:    ".fk <table_name>",
		text: `Display the list of foreign keys for a table. Note: <table_name> is the
table with the foreign key constraints, not the table the foreign key(s)
reference.`,
	},
	{
		commands: []string{".help", "?"},
		usage:    ".help or ? [<command>]",
		text: `Show help for <command>. If <command> is omitted, show help for all
commands.`,
	},
	{
		commands: []string{".history"},
		usage:    ".history [<n> | <re>]",
		text: `Show the history. If <n>, an integer, is supplied, show the last <n>
history items. An <n> of 0 is the same as omitting <n>. If <re> is supplied,
show all history items that match the regular expression <re>. If your
pattern contains spaces or regular expression backslash sequences (e.g., \s),
be sure to enclose it in quotes.`,
	},
	{
		commands: []string{".import"},
		usage:    ".import [-n] <table> <path>",
		text: `Import a CSV or JSON file into a table. If the table exists, .import will
try to append to it. If the table doesn't exist, it will be created. If -n
(for "new-only") is specified, the table must not already exist; the command
will abort if it does. If <path> ends in ".csv", the file is assumed to be a
CSV file. If <path> ends in ".json", the file is assumed to be a JSON Lines
file, as if it were produced by the .export command. You can use ~ as a
shorthand for your home directory. When the table has to be created, column
types are inferred from the data. Inference can't determine a primary key or
foreign keys; if you need those, precreate an empty table with appropriate
constraints before importing. On import, all column names are forced to
lower case, so that column names don't require quoting in databases like
Postgres.`,
	},
	{
		commands: []string{".indexes"},
		usage:    ".indexes <table_name>",
		text: `Display the indexes for <table_name>. Uses database-native commands, where
possible. Otherwise, generic index information is displayed.`,
	},
	{
		commands: []string{".limit"},
		usage:    ".limit [<n>]",
		text: `Show only <n> rows from a SELECT. 0 means unlimited. If <n> is omitted,
show the current .limit setting.`,
	},
	{
		commands: []string{".run"},
		usage:    ".run <path>",
		text: `Run a SQL script file. The file can contain multiple SQL statements, and
each statement can be on a single line or span multiple lines. SQL
statements in the file must end with an unquoted ";". Newlines in SQL
statements are not preserved and will be replaced with a single space.
Multi-line statements will be sent to the database as a single SQL
statement, which will be echoed to the screen as it is run. Note that the
path must end in ".sql", or it will not be run. In the path, you can use ~
as a shorthand for your home directory.`,
	},
	{
		commands: []string{".schema"},
		usage:    ".schema <table>",
		text:     "Show the schema for table <table>.",
	},
	{
		commands: []string{".tables"},
		usage:    ".tables [<re>]",
		text: `List the names of all tables in the database. If <re> is supplied, show
only the tables that match the specified regular expression. Matching is
case-blind. If your pattern contains spaces or regular expression backslash
sequences (e.g., \s), be sure to enclose it in quotes.`,
	},
	{
		commands: []string{".url"},
		usage:    ".url",
		text:     "Show the current database URL.",
	},
}

var helpEpilog = []string{
	`Anything else is interpreted as SQL. SQL statements must end with a ";",
and multi-line input is supported. Newlines are not preserved, and a
multi-line statement is sent to the database and written to the history as a
single line.`,
	"",
	`Note that you can use tab-completion on the dot-commands. Also, as a
special case, you can tab-complete available table names after typing
".schema", ".indexes", or ".fk". Completion for SQL statements is not
available.`,
}

// CommandNames returns every dot-command keyword, for tab completion.
func CommandNames() []string {
	var names []string
	for _, topic := range helpTopics {
		names = append(names, topic.commands...)
	}
	return names
}

// showHelp prints help for one topic, or for everything when topic is empty.
func (s *Shell) showHelp(topic string) {
	topics := helpTopics
	if topic != "" {
		topics = nil
		for _, t := range helpTopics {
			for _, cmd := range t.commands {
				if cmd == topic {
					topics = append(topics, t)
					break
				}
			}
		}
		if len(topics) == 0 {
			logging.Errorf(s.errOut, "unknown command %q", topic)
			return
		}
	}

	prefixWidth := 0
	for _, t := range topics {
		if len(t.usage) > prefixWidth {
			prefixWidth = len(t.usage)
		}
	}

	const separator = " - "
	width := screenWidth()
	textWidth := width - 1 - len(separator) - prefixWidth
	if textWidth < 0 {
		textWidth = defaultScreenWidth / 2
	}

	for _, t := range topics {
		lines := wrap(collapseSpace(t.text), textWidth)
		fmt.Fprintf(s.out, "%-*s%s%s\n", prefixWidth, t.usage, separator, lines[0])
		padding := strings.Repeat(" ", prefixWidth+len(separator))
		for _, line := range lines[1:] {
			fmt.Fprintf(s.out, "%s%s\n", padding, line)
		}
	}

	if topic == "" {
		fmt.Fprintln(s.out)
		for _, para := range helpEpilog {
			if strings.TrimSpace(para) == "" {
				fmt.Fprintln(s.out)
				continue
			}
			for _, line := range wrap(collapseSpace(para), width) {
				fmt.Fprintln(s.out, line)
			}
		}
	}
}

// screenWidth honors COLUMNS when it is set and sane.
func screenWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return defaultScreenWidth
}

// collapseSpace flattens a multi-line help string into one line with single
// spaces.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// wrap word-wraps text to the given width.
func wrap(text string, width int) []string {
	wrapped := pterm.DefaultParagraph.WithMaxWidth(width).Sprint(text)
	return strings.Split(wrapped, "\n")
}
