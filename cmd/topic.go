package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/momentum/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the embedded guides: momentum, sanitize, providers..." }
func (*topicCmd) Usage() string {
	return `mom topic [-list] [<topic>...]

  Prints the guides shipped with mom. Without a topic it prints the overview,
  "*" prints every guide. -list prints the topic names only.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print the topic names, one per line")
}

// topicDoc returns the markdown of the requested topics, the overview when
// there are none.
func topicDoc(topics []string) (string, error) {
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	return docs.GetTopics(topics...)
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	all, err := docs.GetAllTopics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.list {
		fmt.Println(strings.Join(all, "\n"))
		return subcommands.ExitSuccess
	}

	doc, err := topicDoc(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nAvailable topics: %s\n", err, strings.Join(all, ", "))
		return subcommands.ExitUsageError
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
