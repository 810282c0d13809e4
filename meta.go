package manifestcodec

import (
	"fmt"

	"github.com/polynite/manifestcodec/internal/wire"
)

// Meta carries the application-level metadata of a build: its name,
// version, launch command, prerequisite installer info, and (version
// gated) build id / uninstall action.
type Meta struct {
	dataVersion uint8

	FeatureLevel  FeatureLevel
	IsFileData    bool
	AppID         uint32
	AppName       string
	BuildVersion  string
	LaunchExe     string
	LaunchCommand string

	PrereqIDs  []string
	PrereqName string
	PrereqPath string
	PrereqArgs string

	// BuildID is present only when the section's data version is >= 1.
	BuildID *string

	// UninstallActionPath and UninstallActionArgs are present only when
	// the section's data version is >= 2.
	UninstallActionPath *string
	UninstallActionArgs *string
}

func parseMeta(r *wire.Reader) (Meta, error) {
	start := r.Tell()

	size, err := r.ReadUint32()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: size: %w", err)
	}

	dataVersion, err := r.ReadUint8()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: data version: %w", err)
	}

	rawLevel, err := r.ReadInt32()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: feature level: %w", err)
	}
	featureLevel, err := featureLevelFromInt32(rawLevel)
	if err != nil {
		return Meta{}, fmt.Errorf("meta: feature level %d: %w", rawLevel, err)
	}

	isFileDataByte, err := r.ReadUint8()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: is file data: %w", err)
	}

	appID, err := r.ReadUint32()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: app id: %w", err)
	}

	appName, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: app name: %w", err)
	}
	buildVersion, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: build version: %w", err)
	}
	launchExe, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: launch exe: %w", err)
	}
	launchCommand, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: launch command: %w", err)
	}

	prereqIDs, err := wire.ReadArray(r, func(r *wire.Reader) (string, error) {
		return r.ReadString()
	})
	if err != nil {
		return Meta{}, fmt.Errorf("meta: prereq ids: %w", err)
	}

	prereqName, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: prereq name: %w", err)
	}
	prereqPath, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: prereq path: %w", err)
	}
	prereqArgs, err := r.ReadString()
	if err != nil {
		return Meta{}, fmt.Errorf("meta: prereq args: %w", err)
	}

	meta := Meta{
		dataVersion:   dataVersion,
		FeatureLevel:  featureLevel,
		IsFileData:    isFileDataByte == 1,
		AppID:         appID,
		AppName:       appName,
		BuildVersion:  buildVersion,
		LaunchExe:     launchExe,
		LaunchCommand: launchCommand,
		PrereqIDs:     prereqIDs,
		PrereqName:    prereqName,
		PrereqPath:    prereqPath,
		PrereqArgs:    prereqArgs,
	}

	if dataVersion >= 1 {
		buildID, err := r.ReadString()
		if err != nil {
			return Meta{}, fmt.Errorf("meta: build id: %w", err)
		}
		meta.BuildID = &buildID
	}

	if dataVersion >= 2 {
		uninstallPath, err := r.ReadString()
		if err != nil {
			return Meta{}, fmt.Errorf("meta: uninstall action path: %w", err)
		}
		uninstallArgs, err := r.ReadString()
		if err != nil {
			return Meta{}, fmt.Errorf("meta: uninstall action args: %w", err)
		}
		meta.UninstallActionPath = &uninstallPath
		meta.UninstallActionArgs = &uninstallArgs
	}

	if end := start + int(size); r.Tell() != end {
		return Meta{}, fmt.Errorf("meta: declared size %d, read to %d instead of %d: %w", size, r.Tell(), end, ErrInvalidData)
	}

	return meta, nil
}

func (m Meta) write(w *wire.Writer) {
	writeFramedSection(w, func(w *wire.Writer) {
		w.WriteUint8(m.dataVersion)
		w.WriteInt32(int32(m.FeatureLevel))
		if m.IsFileData {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		w.WriteUint32(m.AppID)
		w.WriteString(m.AppName)
		w.WriteString(m.BuildVersion)
		w.WriteString(m.LaunchExe)
		w.WriteString(m.LaunchCommand)
		wire.WriteArray(w, m.PrereqIDs, func(w *wire.Writer, s string) { w.WriteString(s) })
		w.WriteString(m.PrereqName)
		w.WriteString(m.PrereqPath)
		w.WriteString(m.PrereqArgs)

		if m.dataVersion >= 1 {
			w.WriteString(stringOrEmpty(m.BuildID))
		}

		if m.dataVersion >= 2 {
			w.WriteString(stringOrEmpty(m.UninstallActionPath))
			w.WriteString(stringOrEmpty(m.UninstallActionArgs))
		}
	})
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
