// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	dnfile "github.com/malwarefrank/dnfile"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	clrHeader   bool
	streams     bool
	tables      bool
	userStrings bool
	resources   bool
)

func isDirectory(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func parsePE(filename string, cmd *cobra.Command) {
	log.Printf("processing filename %s", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		log.Printf("error while opening file: %s, reason: %v", filename, err)
		return
	}

	pe, err := dnfile.NewBytes(data, &dnfile.Options{})
	if err != nil {
		log.Printf("error while opening file: %s, reason: %v", filename, err)
		return
	}
	defer pe.Close()

	if err = pe.Parse(); err != nil {
		log.Printf("error while parsing file: %s, reason: %v", filename, err)
		if !pe.HasCLR {
			return
		}
	}

	if !pe.HasCLR {
		fmt.Println("no CLR directory found")
		return
	}

	if clrHeader {
		dumpCLRHeader(pe)
	}
	if streams {
		dumpStreams(pe)
	}
	if tables {
		dumpTables(pe)
	}
	if userStrings {
		dumpUserStrings(pe)
	}
	if resources {
		dumpResources(pe)
	}

	if verbose {
		for _, w := range pe.Warnings {
			fmt.Println("warning:", w)
		}
	}
}

func parse(cmd *cobra.Command, args []string) {
	filePath := args[0]
	if isDirectory(filePath) {
		fileList := []string{}
		filepath.Walk(filePath, func(path string, f os.FileInfo, err error) error {
			if !isDirectory(path) {
				fileList = append(fileList, path)
			}
			return nil
		})

		for _, file := range fileList {
			parsePE(file, cmd)
		}
	} else {
		parsePE(filePath, cmd)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dndump <file-or-directory>",
		Short: "Dump .NET (CLR) metadata embedded in PE files",
		Args:  cobra.ExactArgs(1),
		Run:   parse,
	}

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print parse warnings")
	rootCmd.Flags().BoolVarP(&clrHeader, "clr", "c", true, "Dump the CLR header and metadata root")
	rootCmd.Flags().BoolVarP(&streams, "streams", "s", false, "Dump the metadata stream directory")
	rootCmd.Flags().BoolVarP(&tables, "tables", "t", false, "Dump the metadata tables summary")
	rootCmd.Flags().BoolVarP(&userStrings, "us", "u", false, "Dump the user strings heap")
	rootCmd.Flags().BoolVarP(&resources, "resources", "r", false, "Dump the manifest resources")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
