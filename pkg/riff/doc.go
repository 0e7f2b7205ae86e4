/*
Package riff is the high-level entry point for dissecting RIFF-family
containers (WebP, WAVE, AVI and formats declared in configuration) held in
memory, in files, or inside captured network traffic.

# Quick Start

Dissect a file and print the field tree:

	d, err := riff.New(riff.DefaultConfig(), riff.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	err = d.DissectFile("photo.webp", func(res *riff.Result) error {
	    return printer.New(os.Stdout, printer.DefaultOptions()).Render(res)
	})

Scan many files with bounded parallelism:

	reports, err := d.ScanFiles(ctx, paths, nil)
	for _, r := range reports {
	    fmt.Println(r.Path, r.Summary, r.Annotations.Errors)
	}

Find RIFF payloads in an offline capture:

	f, _ := os.Open("traffic.pcap")
	frames, err := d.ScanPcap(f, func(hit riff.PcapHit) error {
	    fmt.Println(hit.Frame, hit.Flow, hit.Result.Summary)
	    return nil
	})

# Configuration

LoadConfig reads a TOML file; keys it omits keep their DefaultConfig value:

	max_depth = 8
	check_declared_size = true
	workers = 4
	output = "json"
	formats = ["webp", "wave"]

	[[format]]
	name = "acon"
	display_name = "ANI"
	marker = "ACON"
	[format.subtypes]
	"anih" = "acon.anih"
	"LIST" = "riff.list"

# Error Handling

Only buffers too short to hold the container header fail, with
types.ErrTruncated. Everything found after that is reported as annotations
on the Result (see Result.HasErrors and Result.Summarize).
*/
package riff
