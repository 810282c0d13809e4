package manifestcodec

// StorageFlag describes how a section's payload bytes are stored on disk.
type StorageFlag uint8

const (
	StoragePlain      StorageFlag = 0
	StorageCompressed StorageFlag = 1
	StorageEncrypted  StorageFlag = 2
)

func storageFlagFromByte(b uint8) (StorageFlag, error) {
	switch b {
	case uint8(StoragePlain), uint8(StorageCompressed), uint8(StorageEncrypted):
		return StorageFlag(b), nil
	default:
		return 0, ErrInvalidStorageFlag
	}
}

func (s StorageFlag) String() string {
	switch s {
	case StoragePlain:
		return "Plain"
	case StorageCompressed:
		return "Compressed"
	case StorageEncrypted:
		return "Encrypted"
	default:
		return "Unknown"
	}
}

// FeatureLevel is the manifest's dense wire-compatibility version tag. It
// gates which optional fields are present in Meta and FileList. Several
// named levels are aliases of other numeric values and must never be
// assigned a new wire code of their own.
type FeatureLevel int32

const (
	FeatureLevelOriginal                               FeatureLevel = 0
	FeatureLevelCustomFields                           FeatureLevel = 1
	FeatureLevelStartStoringVersion                    FeatureLevel = 2
	FeatureLevelDataFileRenames                        FeatureLevel = 3
	FeatureLevelStoresIfChunkOrFileData                FeatureLevel = 4
	FeatureLevelStoresDataGroupNumbers                 FeatureLevel = 5
	FeatureLevelChunkCompressionSupport                FeatureLevel = 6
	FeatureLevelStoresPrerequisitesInfo                FeatureLevel = 7
	FeatureLevelStoresChunkFileSizes                   FeatureLevel = 8
	FeatureLevelStoredAsCompressedUClass               FeatureLevel = 9
	FeatureLevelUnused0                                FeatureLevel = 10
	FeatureLevelUnused1                                FeatureLevel = 11
	FeatureLevelStoresChunkDataShaHashes                FeatureLevel = 12
	FeatureLevelStoresPrerequisiteIds                  FeatureLevel = 13
	FeatureLevelStoredAsBinaryData                     FeatureLevel = 14
	FeatureLevelVariableSizeChunksWithoutWindowSizeInfo FeatureLevel = 15
	FeatureLevelVariableSizeChunks                      FeatureLevel = 16
	FeatureLevelUsesRuntimeGeneratedBuildID             FeatureLevel = 17
	FeatureLevelUsesBuildTimeGeneratedBuildID           FeatureLevel = 18

	// FeatureLevelLatestPlusOne always sits one past the newest real
	// level, purely so Latest can be defined as "LatestPlusOne - 1"
	// without hand-updating a second constant each time a level is added.
	FeatureLevelLatestPlusOne FeatureLevel = 19

	// Aliases. These resolve to numeric values already defined above and
	// introduce no new wire codes.
	FeatureLevelLatest              = FeatureLevelLatestPlusOne - 1
	FeatureLevelLatestNoChunks      = FeatureLevelStoresChunkFileSizes
	FeatureLevelLatestJSON          = FeatureLevelStoresPrerequisiteIds
	FeatureLevelFirstOptimisedDelta = FeatureLevelUsesRuntimeGeneratedBuildID
	FeatureLevelStoresUniqueBuildID = FeatureLevelUsesRuntimeGeneratedBuildID

	// FeatureLevelBrokenJSON is the sentinel 255 some JSON manifests were
	// stamped with during a bug window. It is accepted on read and kept as
	// 255; this codec does not map it to any other level.
	FeatureLevelBrokenJSON FeatureLevel = 255

	FeatureLevelInvalid FeatureLevel = -1
)

// knownFeatureLevels is the set of wire codes this codec accepts on read.
// Wire code 19 (the accidental LatestPlusOne collision) is deliberately
// rejected rather than aliased: a producer that emitted 19 gets an error
// instead of being silently treated as Latest.
var knownFeatureLevels = map[int32]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true,
	8: true, 9: true, 10: true, 11: true, 12: true, 13: true, 14: true,
	15: true, 16: true, 17: true, 18: true,
	255: true,
	-1:  true,
}

func featureLevelFromInt32(v int32) (FeatureLevel, error) {
	if !knownFeatureLevels[v] {
		return 0, ErrInvalidData
	}
	return FeatureLevel(v), nil
}
