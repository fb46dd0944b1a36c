package sampling

// SampleEntry indexes a sample file discovered by a directory scan:
// cheap metadata only, no PCM. Folders produce numbered entries
// ("hats/0", "hats/1", ...), single files produce a bare name ("kick").
type SampleEntry struct {
	Name string
	Path string
}
