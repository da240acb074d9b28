package main

import (
	"context"
	"flag"
	"os"

	platformcmd "github.com/louisbranch/pccdata/internal/platform/cmd"
	"github.com/louisbranch/pccdata/internal/platform/config"
	pccimporter "github.com/louisbranch/pccdata/internal/tools/importer/pcc"
)

func main() {
	cfg, err := pccimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	err = platformcmd.RunWithTelemetry(context.Background(), platformcmd.ServicePCCImporter, func(ctx context.Context) error {
		return pccimporter.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		config.ExitCodef(pccimporter.ExitCode(err), "Error: %s", pccimporter.Describe(err, os.Getenv("LANG")))
	}
}
