package exporter

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CreateZipArchive bundles files into a flat ZIP archive at zipPath.
// Files are streamed, never loaded into memory whole.
func CreateZipArchive(zipPath string, files []string) (err error) {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating zip file: %w", err)
	}
	defer func() {
		if cerr := zipFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip file: %w", cerr)
		}
		if err != nil {
			os.Remove(zipPath)
		}
	}()

	zw := zip.NewWriter(zipFile)
	for _, path := range files {
		if err := addFileToZip(zw, path); err != nil {
			zw.Close()
			return fmt.Errorf("adding %s to zip: %w", filepath.Base(path), err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}
	return nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = compressionMethod(path)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, file)
	return err
}

// compressionMethod stores Parquet files as-is since they are already ZSTD compressed
func compressionMethod(path string) uint16 {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return zip.Store
	}
	return zip.Deflate
}
