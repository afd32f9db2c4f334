package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	goflag.Set("logtostderr", "true")

	cmd := newRootCommand(Default())
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
