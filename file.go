// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dnfile

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/malwarefrank/dnfile/log"
)

// A File represents an open managed PE file.
type File struct {
	DOSHeader ImageDOSHeader `json:"dos_header,omitempty"`
	NtHeader  ImageNtHeader  `json:"nt_header,omitempty"`
	Sections  []Section      `json:"sections,omitempty"`
	CLR       CLRData        `json:"clr,omitempty"`

	// Warnings accumulates every non-fatal defect encountered while
	// parsing. Defects are localized to the smallest unit possible and the
	// parser proceeds, so callers inspect this list after Parse returns.
	Warnings []string `json:"warnings,omitempty"`

	Header []byte
	data   mmap.MMap
	FileInfo
	size uint32
	f    *os.File
	opts *Options

	logger *log.Helper
}

// FileInfo records which parts of the image were successfully located.
type FileInfo struct {
	Is32        bool
	Is64        bool
	HasDOSHdr   bool
	HasNTHdr    bool
	HasSections bool
	HasCLR      bool
}

// Options for Parsing.
type Options struct {

	// Parse only the PE header and do not parse the CLR directory, by
	// default (false).
	Fast bool

	// Defer decoding of metadata table rows until first access, by default
	// (false). Deferral has no observable effect besides deferred cost.
	LazyLoadTables bool

	// A custom logger.
	Logger log.Logger
}

// New instantiates a file instance with options given a file name.
func New(name string, opts *Options) (*File, error) {

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	// Memory map the file instead of using read/write.
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}

	file.setLogger()
	file.data = data
	file.size = uint32(len(file.data))
	file.f = f
	return &file, nil
}

// NewBytes instantiates a file instance with options given a memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {

	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}

	file.setLogger()
	file.data = data
	file.size = uint32(len(file.data))
	return &file, nil
}

func (pe *File) setLogger() {
	if pe.opts.Logger == nil {
		logger := log.NewStdLogger(os.Stdout)
		pe.logger = log.NewHelper(log.NewFilter(logger,
			log.FilterLevel(log.LevelError)))
	} else {
		pe.logger = log.NewHelper(pe.opts.Logger)
	}
}

// Close closes the File.
func (pe *File) Close() error {
	if pe.data != nil {
		_ = pe.data.Unmap()
	}

	if pe.f != nil {
		return pe.f.Close()
	}
	return nil
}

// Parse performs the file parsing for a managed PE binary.
func (pe *File) Parse() error {

	// check for the smallest PE size.
	if len(pe.data) < TinyPESize {
		return ErrInvalidPESize
	}

	// Parse the DOS header.
	err := pe.ParseDOSHeader()
	if err != nil {
		return err
	}

	// Parse the NT header.
	err = pe.ParseNTHeader()
	if err != nil {
		return err
	}

	// Parse the Section Header.
	err = pe.ParseSectionHeader()
	if err != nil {
		return err
	}

	// In fast mode, do not parse the CLR directory.
	if pe.opts.Fast {
		return nil
	}

	return pe.ParseCLRHeaderDirectory()
}

// addWarning records a non-fatal parse defect.
func (pe *File) addWarning(msg string) {
	pe.Warnings = append(pe.Warnings, msg)
}
