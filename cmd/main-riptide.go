// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wavetermdev/riptide/demo"
	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/engine"
	"github.com/wavetermdev/riptide/vdom"
)

// these are set at build time
var RiptideVersion = "0.0.0"
var BuildTime = "0"

var benchRows int

var rootCmd = &cobra.Command{
	Use:   "riptide",
	Short: "Riptide - a retained virtual-tree reconciliation engine",
	Long:  `Riptide diffs declarative element trees against a mounted backend tree and applies minimal patch lists.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print Riptide version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("v" + RiptideVersion)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [home|ssr|spiral]",
	Short: "Render a demo page to HTML on stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := demo.RenderPage(args[0])
		if err != nil {
			return err
		}
		fmt.Println(html)
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Mount a keyed row list, reverse it, and report patch counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(benchRows)
	},
}

func runBench(numRows int) error {
	doc := dom.NewHeadlessDocument()
	body := doc.CreateElement("body")
	root := engine.MakeRoot(doc)

	start := time.Now()
	if err := root.Mount(vdom.Comp(demo.RowsPage, demo.RowsProps{NumRows: numRows}), body); err != nil {
		return err
	}
	mountDur := time.Since(start)

	// reversing the keyed list is the worst case for move generation
	reversed := vdom.H("main", nil)
	for i := numRows - 1; i >= 0; i-- {
		reversed.Children = append(reversed.Children,
			*vdom.H("div", vdom.A("key", fmt.Sprint(i)), fmt.Sprintf("SSR 1-%d", i)))
	}
	start = time.Now()
	patches, err := root.Diff(reversed)
	if err != nil {
		return err
	}
	diffDur := time.Since(start)

	start = time.Now()
	if err := root.Apply(patches); err != nil {
		return err
	}
	applyDur := time.Since(start)

	log.Printf("bench: rows=%d mount=%v diff=%v apply=%v patches=%d\n",
		numRows, mountDur, diffDur, applyDur, len(patches))
	return nil
}

func init() {
	benchCmd.Flags().IntVar(&benchRows, "rows", 1000, "number of keyed rows to mount")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
