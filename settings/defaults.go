package settings

// Defaults returns the settings used when no template has been selected.
func Defaults() PackageSettings {
	rule := func(location string) FileLocationSettings {
		return FileLocationSettings{UseTableName: true, Location: location}
	}
	return PackageSettings{
		BaseDirectory:      "Collection",
		MediaFolder:        "media",
		PreserveExtensions: true,
		ConvertImages:      false,
		ConvertVideos:      false,
		ImageCompression:   MediaCompressionNone,
		VideoCompression:   MediaCompressionNone,
		CompressionLevel:   CompressionNormal,
		IncludeTableFile:   true,
		TableFileSettings: FileLocationSettings{
			UseTableName: false,
			Location:     `Collection\Visual Pinball X\Tables`,
		},
		FileSettings: map[Category]FileLocationSettings{
			CategoryCover:        rule(`Collection\Visual Pinball X\media\covers`),
			CategoryTopper:       rule(`Collection\Visual Pinball X\media\topper`),
			CategoryTableVideo:   rule(`Collection\Visual Pinball X\media\videos`),
			CategoryMarqueeVideo: rule(`Collection\Visual Pinball X\media\videos`),
			CategoryDirectB2S:    rule(`Collection\Visual Pinball X\directb2s`),
			CategoryMusic:        rule(`Collection\Visual Pinball X\media\music`),
			CategoryScripts:      rule(`Collection\Visual Pinball X\scripts`),
		},
	}
}

// templateBase is the base of template documents that do not carry the nested
// "fileSettings.tableFileSettings" shape. Top-level keys of the document
// replace the matching field whole.
func templateBase() PackageSettings {
	rule := func(location string) FileLocationSettings {
		return FileLocationSettings{UseTableName: true, Location: location}
	}
	return PackageSettings{
		BaseDirectory:      "Collection",
		MediaFolder:        "media",
		PreserveExtensions: true,
		ImageCompression:   MediaCompressionNone,
		VideoCompression:   MediaCompressionNone,
		CompressionLevel:   CompressionNormal,
		IncludeTableFile:   true,
		TableFileSettings:  rule(`Collection\Visual Pinball X\Tables`),
		FileSettings: map[Category]FileLocationSettings{
			CategoryCover:        rule(`Collection\Visual Pinball X\media\covers`),
			CategoryTopper:       rule(`Collection\Visual Pinball X\media\toppers`),
			CategoryTableVideo:   rule(`Collection\Visual Pinball X\media\videos`),
			CategoryMarqueeVideo: rule(`Collection\Visual Pinball X\media\marquee`),
			CategoryDirectB2S:    rule(`Collection\Visual Pinball X\Tables`),
			CategoryMusic:        rule(`Collection\Visual Pinball X\Music`),
			CategoryScripts:      rule(`Collection\Visual Pinball X\Scripts`),
		},
	}
}
