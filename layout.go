package genosnp

// VCFType describes how many samples a VCF file carries.
type VCFType uint32

const (
	VCFTypeUnknown VCFType = iota
	VCFTypeSingleSample
	VCFTypeMultiSample
)

func (t VCFType) String() string {
	switch t {
	case VCFTypeSingleSample:
		return "single_sample"
	case VCFTypeMultiSample:
		return "multi_sample"

	default:
		return "Unknown"
	}
}
