/*
 *  main.go
 *  popins
 */

package main

import (
	"os"
	"strings"
	"time"

	logging "github.com/op/go-logging"
	"github.com/starling13/popins"
	"github.com/urfave/cli"
)

var log = logging.MustGetLogger("main")

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Noticef(strings.Repeat("*", len(message)))
	log.Noticef(message)
	log.Noticef(strings.Repeat("*", len(message)))
}

func scoringFlags(defaults popins.Options) []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "qgramLength",
			Usage: "q-gram seed length",
			Value: defaults.QGramLength,
		},
		cli.IntFlag{
			Name:  "matchScore",
			Usage: "Match reward in the alignment scoring scheme",
			Value: defaults.MatchScore,
		},
		cli.IntFlag{
			Name:  "errorPenalty",
			Usage: "Mismatch and gap cost (negative)",
			Value: defaults.ErrorPenalty,
		},
		cli.IntFlag{
			Name:  "minScore",
			Usage: "Minimal alignment score for verification",
			Value: defaults.MinScore,
		},
		cli.IntFlag{
			Name:  "minimalLength",
			Usage: "Minimal match length for the SWIFT filter",
			Value: defaults.MinimalLength,
		},
		cli.Float64Flag{
			Name:  "errorRate",
			Usage: "Error tolerance of the SWIFT filter",
			Value: defaults.ErrorRate,
		},
		cli.IntFlag{
			Name:  "minTipScore",
			Usage: "Minimal flank length for grafting a branch",
			Value: defaults.MinTipScore,
		},
		cli.Float64Flag{
			Name:  "minEntropy",
			Usage: "Minimal dinucleotide entropy of a contig",
			Value: defaults.MinEntropy,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print component graphs and per-component progress",
		},
	}
}

func optionsFromContext(c *cli.Context) popins.Options {
	return popins.Options{
		QGramLength:   c.Int("qgramLength"),
		MatchScore:    c.Int("matchScore"),
		ErrorPenalty:  c.Int("errorPenalty"),
		MinScore:      c.Int("minScore"),
		MinimalLength: c.Int("minimalLength"),
		ErrorRate:     c.Float64("errorRate"),
		MinTipScore:   c.Int("minTipScore"),
		MinEntropy:    c.Float64("minEntropy"),
		Verbose:       c.Bool("verbose"),
	}
}

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(popins.BackendFormatter)

	defaults := popins.DefaultOptions()

	app := cli.NewApp()
	app.Compiled = time.Now()
	app.Name = "POPINS"
	app.Usage = "Pan-genome merging of contigs assembled from unplaced reads"
	app.Version = popins.Version

	app.Commands = []cli.Command{
		{
			Name:  "crop",
			Usage: "Extract unplaced reads from a BAM file",
			UsageText: `
	popins crop sample.bam cropped.fa [options]

Crop function:
Given the alignment of one sample against the reference genome, extract
the reads that are unmapped or mapped with low quality, trim their
low-quality ends and write them as FASTA. The output is the input for
per-sample contig assembly.
`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "qualThresh",
					Usage: "Phred score threshold for end trimming",
					Value: 20,
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify bamfile and outfile", 1)
				}
				p := popins.Cropper{
					Bamfile:    c.Args().Get(0),
					Outfile:    c.Args().Get(1),
					QualThresh: c.Int("qualThresh"),
				}
				return p.Run()
			},
		},
		{
			Name:  "partition",
			Usage: "Group overlapping contigs into components",
			UsageText: `
	popins partition pairs.txt sample1.fa sample2.fa ... [options]

Partition function:
Given the assembled contigs of all samples, find pairs of contigs from
different samples that align to each other. Candidate pairs come from a
SWIFT q-gram filter and are verified by banded local alignment; the
accepted pairs are written to pairs.txt for the merge step. A contig
and its reverse complement always end up in the same component.
`,
			Flags: scoringFlags(defaults),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify pairs file and contig files", 1)
				}
				p := popins.Partitioner{
					Outfile:     c.Args().Get(0),
					ContigFiles: c.Args().Tail(),
					Opts:        optionsFromContext(c),
				}
				return p.Run()
			},
		},
		{
			Name:  "merge",
			Usage: "Merge the contigs of each component into supercontigs",
			UsageText: `
	popins merge supercontigs.fa pairs.txt sample1.fa sample2.fa ... [options]

Merge function:
Read the aligned pairs produced by partition, rebuild the components
and merge each component's contigs into one or a few supercontigs by
aligning them against the paths of a growing sequence graph. The batch
options split the components over parallel jobs.
`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "batch",
					Usage: "Number of this component batch",
					Value: 0,
				},
				cli.IntFlag{
					Name:  "totalBatches",
					Usage: "Total number of component batches",
					Value: 1,
				},
			}, scoringFlags(defaults)...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify outfile, pairs file and contig files", 1)
				}
				p := popins.Merger{
					Outfile:        c.Args().Get(0),
					ComponentFiles: []string{c.Args().Get(1)},
					ContigFiles:    c.Args().Tail()[1:],
					BatchNumber:    c.Int("batch"),
					TotalBatches:   c.Int("totalBatches"),
					Opts:           optionsFromContext(c),
				}
				return p.Run()
			},
		},
		{
			Name:  "pipeline",
			Usage: "Run partition and merge sequentially",
			UsageText: `
	popins pipeline supercontigs.fa sample1.fa sample2.fa ... [options]

Pipeline:
A convenience driver chaining partition and merge over one batch.
`,
			Flags: scoringFlags(defaults),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify outfile and contig files", 1)
				}
				outfile := c.Args().Get(0)
				contigFiles := c.Args().Tail()
				opts := optionsFromContext(c)
				pairsFile := popins.RemoveExt(outfile) + ".pairs.txt"

				banner("Partition started")
				partitioner := popins.Partitioner{
					Outfile:     pairsFile,
					ContigFiles: contigFiles,
					Opts:        opts,
				}
				if err := partitioner.Run(); err != nil {
					return err
				}

				banner("Merge started")
				merger := popins.Merger{
					Outfile:        outfile,
					ComponentFiles: []string{pairsFile},
					ContigFiles:    contigFiles,
					TotalBatches:   1,
					Opts:           opts,
				}
				return merger.Run()
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
