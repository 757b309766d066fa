package pathsetbin

import (
	"context"
	"fmt"
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
	"shanhu.io/pathset"
	"shanhu.io/text/lexing"
)

func cmdBuild(args []string) error {
	flags := cmdFlags.New()
	config := new(pathset.Config)
	manifest := flags.String(
		"manifest", pathset.ManifestFile, "manifest file",
	)
	flags.StringVar(&config.Out, "out", "out", "output directory")
	flags.IntVar(
		&config.Workers, "workers", pathset.DefaultWorkers,
		"number of base directories walked concurrently",
	)
	names := flags.ParseArgs(args)

	ok, err := osutil.IsRegular(*manifest)
	if err != nil {
		return errcode.Annotatef(err, "check manifest %q", *manifest)
	}
	if !ok {
		return errcode.NotFoundf("manifest %q not found", *manifest)
	}

	wd, err := os.Getwd()
	if err != nil {
		return errcode.Annotate(err, "get work dir")
	}

	m, errs := pathset.ReadManifest(*manifest)
	if errs != nil {
		lexing.FprintErrs(os.Stderr, errs, wd)
		return errcode.InvalidArgf("read manifest got %d errors", len(errs))
	}

	b := pathset.NewBuilder(m, config)
	written, err := b.Build(context.Background(), names)
	if err != nil {
		return err
	}
	for _, f := range written {
		fmt.Println(f)
	}
	return nil
}

func cmdCheck(args []string) error {
	flags := cmdFlags.New()
	files := flags.ParseArgs(args)
	if len(files) == 0 {
		return errcode.InvalidArgf("no file set output given")
	}

	n := 0
	for _, f := range files {
		stale, err := pathset.CheckOutput(f)
		if err != nil {
			return err
		}
		for _, p := range stale {
			fmt.Printf("%s: %s\n", f, p)
		}
		n += len(stale)
	}
	if n > 0 {
		return errcode.Internalf("%d stale files", n)
	}
	return nil
}
