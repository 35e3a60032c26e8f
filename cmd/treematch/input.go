package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/textutil"
	"github.com/cqfn/patternika-sub000/pkg/tree"
	"github.com/cqfn/patternika-sub000/pkg/tree/registry"
	"github.com/cqfn/patternika-sub000/pkg/uast"
)

// Sentinel errors for reading input files.
var (
	ErrDirectoryPath     = errors.New("path points to a directory")
	ErrEmptyPath         = errors.New("path is empty")
	ErrPathContainsNUL   = errors.New("path contains NUL byte")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrBinaryFile        = errors.New("file is binary")
	ErrUnknownFileFormat = errors.New("cannot infer input format")
)

// readLimited reads a user-supplied file after checking that it is a regular
// file no larger than limit bytes.
//
//nolint:nonamedreturns // names document the second result.
func readLimited(path string, limit uint64) (content []byte, resolvedPath string, err error) {
	resolvedPath, err = resolveUserFilePath(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve path %q: %w", path, err)
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", resolvedPath, err)
	}

	if limit > 0 && uint64(info.Size()) > limit {
		return nil, "", fmt.Errorf("%w: %s is %s, limit is %s",
			ErrFileTooLarge, path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(limit))
	}

	//nolint:gosec // resolvedPath is normalized and type checked in resolveUserFilePath.
	content, err = os.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", resolvedPath, err)
	}

	if textutil.IsBinary(content) {
		return nil, "", fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	return content, resolvedPath, nil
}

func resolveUserFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", absPath, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryPath, absPath)
	}

	return absPath, nil
}

func validInputFormat(format string) error {
	if !slices.Contains([]string{config.InputAuto, config.InputYAML, config.InputUAST}, format) {
		return fmt.Errorf("%w: %q", config.ErrInvalidInputFormat, format)
	}

	return nil
}

// inputFormat resolves "auto" from the file extension.
func inputFormat(path, format string) (string, error) {
	if format != config.InputAuto {
		return format, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return config.InputUAST, nil
	case ".yaml", ".yml":
		return config.InputYAML, nil
	default:
		return "", fmt.Errorf("%w: %s (use --input yaml|uast)", ErrUnknownFileFormat, path)
	}
}

// loadTree reads a tree file in the configured format.
func loadTree(path string, input config.InputConfig) (tree.Node, error) {
	format, err := inputFormat(path, input.Format)
	if err != nil {
		return nil, err
	}

	content, _, err := readLimited(path, input.MaxFileBytes)
	if err != nil {
		return nil, err
	}

	switch format {
	case config.InputYAML:
		root, err := registry.NewLenient().DecodeYAML(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return root, nil
	default:
		document, err := uast.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		root, err := uast.Adapt(document, uast.WithSource(filepath.Base(path)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return root, nil
	}
}
