// Package manifest extracts AndroidManifest.xml from .aar archives and reads
// the SDK bounds declared there.
package manifest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
)

const manifestEntry = "AndroidManifest.xml"

// SDKBounds are the target and minimum SDK versions a module declares.
type SDKBounds struct {
	Target int
	Min    int
}

// ExtractFromAar copies the AndroidManifest.xml entry out of an .aar into
// destDir and returns the written path.
func ExtractFromAar(aarPath, destDir string) (string, error) {
	r, err := zip.OpenReader(aarPath)
	if err != nil {
		return "", fmt.Errorf("failed to open aar %s: %w", aarPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != manifestEntry {
			continue
		}

		src, err := f.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()

		outPath := filepath.Join(destDir, manifestEntry)
		dst, err := os.Create(outPath)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return "", err
		}
		if err := dst.Close(); err != nil {
			return "", err
		}
		return outPath, nil
	}

	return "", fmt.Errorf("no %s entry in %s", manifestEntry, aarPath)
}

type androidManifest struct {
	XMLName xml.Name `xml:"manifest"`
	UsesSDK struct {
		MinSDK    string `xml:"http://schemas.android.com/apk/res/android minSdkVersion,attr"`
		TargetSDK string `xml:"http://schemas.android.com/apk/res/android targetSdkVersion,attr"`
	} `xml:"uses-sdk"`
}

// ParseSDKBounds reads targetSdkVersion and minSdkVersion from an extracted
// manifest. Missing or non-numeric attributes fall back to the given defaults;
// a library manifest frequently declares neither.
func ParseSDKBounds(manifestPath string, defaults SDKBounds, logger *log.Logger) SDKBounds {
	bounds := defaults

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		logger.Debug("manifest unreadable, using default SDK bounds", "manifest", manifestPath, "error", err)
		return bounds
	}

	var m androidManifest
	if err := xml.Unmarshal(data, &m); err != nil {
		logger.Debug("manifest unparsable, using default SDK bounds", "manifest", manifestPath, "error", err)
		return bounds
	}

	if v, err := strconv.Atoi(m.UsesSDK.TargetSDK); err == nil {
		bounds.Target = v
	} else {
		logger.Debug("manifest has no targetSdkVersion, using default", "manifest", manifestPath, "default", defaults.Target)
	}
	if v, err := strconv.Atoi(m.UsesSDK.MinSDK); err == nil {
		bounds.Min = v
	} else {
		logger.Debug("manifest has no minSdkVersion, using default", "manifest", manifestPath, "default", defaults.Min)
	}

	return bounds
}
