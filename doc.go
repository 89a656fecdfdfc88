// Package assets locates and reads a bundle of read-only asset files.
//
// An [Index] answers "does this asset exist", "is this a directory", "what
// assets are there" and "give me its bytes" the same way whether the bundle
// lives on a real filesystem or inside an archive that can only be fetched
// one whole file at a time.
//
// # Modes
//
// The mode is fixed when the Index is constructed, from the platform
// capability check in the [platform] subpackage:
//   - [ModeNative]: every query goes straight to a [Storage].
//   - [ModeManifest]: existence and listing are answered from a manifest
//     (see the [manifest] subpackage) fetched once at [Index.Init]; file
//     content is fetched through a [Fetcher].
//
// # Quick Start
//
//	idx, err := assets.New(
//	    assets.WithPlatform("android"),
//	    assets.WithRoot("https://cdn.example.com/bundle"),
//	    assets.WithFetcher(http.NewFetcher()),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := idx.Init(ctx); err != nil {
//	    return err
//	}
//	defer idx.Destroy()
//	if err := idx.Wait(ctx); err != nil {
//	    return err
//	}
//	data, ok := idx.ReadAllBytes(ctx, "config.json")
//
// # Failure policy
//
// Queries never return errors. A manifest that cannot be fetched or decoded
// leaves the Index ready with no entries ([Index.LoadErr] reports why), a
// failed read reports ok == false, and storage errors read as "does not
// exist".
package assets
