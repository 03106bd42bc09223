// pkg/env/doc.go
package env

/*
Package env inspects an install prefix produced by quarry and derives the
compiler and linker configuration a downstream build needs to consume it.

Basic usage:

    prefix := env.New("path/to/third_party")

    flags := prefix.CompilerFlags()
    for _, f := range flags.IncludeFlags {
        fmt.Println(f) // -Ipath/to/third_party/include
    }

    if lib := prefix.FindLibrary("ssl"); lib != nil {
        fmt.Printf("found %s at %s\n", lib.Name, lib.Path)
    }

The prefix is flat: every package installs into the shared include/, lib/
(or lib64/) and bin/ trees, so a single -I/-L pair usually covers the whole
dependency set.
*/
