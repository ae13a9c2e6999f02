package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/BigFatSpider/json2wav/internal/preset"
	"github.com/BigFatSpider/json2wav/internal/wavio"
	"github.com/BigFatSpider/json2wav/render"
)

/*-------------------------------------------------------------------
 *
 * Name:	main
 *
 * Purpose:	Demonstration binary for the graph construction API: reads
 *		a YAML preset, wires it into a render graph, pulls a full
 *		render, and writes the result out as a WAVE file. One fixed
 *		document shape, not a general script-loading program.
 *
 *--------------------------------------------------------------------*/

func main() {
	var presetPath string
	var outPath string

	pflag.StringVarP(&presetPath, "preset", "p", "", "path to a YAML render preset (required)")
	pflag.StringVarP(&outPath, "out", "o", "out.wav", "output WAV file path")
	pflag.Parse()

	if presetPath == "" {
		log.Error("missing required flag", "flag", "--preset")
		pflag.Usage()
		os.Exit(2)
	}

	p, err := preset.Load(presetPath)
	if err != nil {
		log.Fatal("loading preset", "err", err)
	}

	root, format, err := preset.Build(p)
	if err != nil {
		log.Fatal("building render graph", "err", err)
	}

	channels := p.Channels
	if channels <= 0 {
		channels = 1
	}
	r := render.New(root, channels, p.SampleRate, format)
	log.Info("rendering", "preset", presetPath, "total_samples", p.TotalSamples, "sample_rate", r.SampleRate, "channels", channels)

	result := r.Render(p.TotalSamples)
	for _, d := range result.Diagnostics {
		log.Warn("render diagnostic", "err", d)
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatal("creating output file", "path", outPath, "err", err)
	}
	defer f.Close()

	if err := wavio.Write(f, result, channels, r.SampleRate, format); err != nil {
		log.Fatal("writing WAV", "path", outPath, "err", err)
	}

	log.Info("wrote WAV file", "path", outPath)
}
