// Package recording contains the descriptor value object for one uploaded
// recording and the natural key identifying it across filenames and paths.
package recording

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/example/museqc/internal/core/filename"
)

// Key is the natural key of one physical recording: the same collection
// re-uploaded under a different object path still resolves to the same Key.
// The weston id is lower-cased so dedup is case-insensitive.
type Key struct {
	WestonID string
	PodID    string
	Start    string
}

// NewKey builds a Key from the three identity fields.
func NewKey(westonID, podID string, start time.Time) Key {
	return Key{
		WestonID: strings.ToLower(westonID),
		PodID:    podID,
		Start:    start.Format(time.DateTime),
	}
}

// StartTime returns the collection start encoded in the key.
func (k Key) StartTime() time.Time {
	t, _ := time.Parse(time.DateTime, k.Start)
	return t
}

func (k Key) String() string {
	return fmt.Sprintf("weston=%s pod=%s start=%s", k.WestonID, k.PodID, k.Start)
}

// Descriptor identifies one uploaded file: its storage metadata plus the
// fields derived from the object name. Descriptors are immutable; they live
// for one ingestion cycle.
type Descriptor struct {
	// Root is the storage root the object was listed from. Set by the
	// lister, never parsed from the name. Path is relative to it.
	Root       string
	Path       string
	UploadTime time.Time
	Size       int64
	SizeUnit   string

	StartTime time.Time
	TZOffset  float64
	PodID     string
	WestonID  string
	DataType  string

	startOK  bool
	offsetOK bool
	podOK    bool
	westonOK bool
	typeOK   bool
}

// NewDescriptor derives a descriptor from one storage listing entry. Fields
// that fail to parse are left zero; Complete reports whether all parsed.
func NewDescriptor(objectPath string, uploadTime time.Time, size int64, sizeUnit string) Descriptor {
	d := Descriptor{
		Path:       objectPath,
		UploadTime: uploadTime,
		Size:       size,
		SizeUnit:   sizeUnit,
	}
	name := baseWithoutExt(objectPath)
	d.StartTime, d.startOK = filename.StartTime(name)
	d.TZOffset, d.offsetOK = filename.TimezoneOffset(name)
	d.PodID, d.podOK = filename.PodID(name)
	d.WestonID, d.westonOK = filename.WestonID(name)
	d.DataType, d.typeOK = filename.DataType(name)
	return d
}

// Complete reports whether every derived field parsed. Incomplete
// descriptors are excluded from all downstream processing.
func (d Descriptor) Complete() bool {
	return d.startOK && d.offsetOK && d.podOK && d.westonOK && d.typeOK
}

// Key returns the natural key. Only meaningful when Complete.
func (d Descriptor) Key() Key {
	return NewKey(d.WestonID, d.PodID, d.StartTime)
}

// HasIDPrefix reports whether the participant id carries the given
// two-letter site-class prefix, case-insensitively.
func (d Descriptor) HasIDPrefix(prefix string) bool {
	return strings.HasPrefix(strings.ToLower(d.WestonID), strings.ToLower(prefix))
}

// FileName returns the object's base name including extension.
func (d Descriptor) FileName() string {
	return path.Base(d.Path)
}

// LocalFileName returns the base name in local-storage encoding.
func (d Descriptor) LocalFileName() string {
	return filename.EncodeLocal(d.FileName())
}

func baseWithoutExt(p string) string {
	name := path.Base(p)
	if ext := path.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
