package genosnp

import (
	"bufio"

	"github.com/sirupsen/logrus"
)

// maxCollisionExamples caps the coordinates listed in a collision warning.
const maxCollisionExamples = 5

// Ingester loads single-sample VCF files into samples. The zero value reads
// local files, excludes nothing and logs to the standard logrus logger.
type Ingester struct {
	Repeats *RepeatRegions
	Opener  *Opener
	Log     logrus.FieldLogger
	Metrics *Metrics
}

func (in *Ingester) log() logrus.FieldLogger {
	if in.Log == nil {
		return logrus.StandardLogger()
	}
	return in.Log
}

// Ingest parses the VCF at path and appends its variants to sample. Variants
// already in registry are reused; new ones are added to it. The sample is
// only modified if the whole file parses.
func (in *Ingester) Ingest(path string, registry *VariantRegistry, sample *Sample) error {
	opener := in.Opener
	if opener == nil {
		opener = NewOpener(nil)
	}

	f, err := opener.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 1<<16)
	vcfType, err := DetermineVCFType(br, path)
	if err != nil {
		return err
	}
	if vcfType != VCFTypeSingleSample {
		return &UnsupportedInputError{File: path, Type: vcfType}
	}

	var (
		staged     []*Variant
		stagedKeys = make(map[VariantKey]struct{})
		collisions []string
		nRead      int
	)

	vr := NewVariantReader(br, path, in.Repeats)
	for v := vr.Read(); v != nil; v = vr.Read() {
		nRead++
		canonical, collision := registry.Intern(v)
		if collision {
			collisions = append(collisions, v.String()+" vs "+canonical.String())
		}

		if sample.Contains(canonical) {
			continue
		}
		if _, ok := stagedKeys[canonical.Key()]; ok {
			continue
		}
		stagedKeys[canonical.Key()] = struct{}{}
		staged = append(staged, canonical)
	}
	if err := vr.Error(); err != nil {
		return err
	}

	for _, v := range staged {
		sample.Add(v)
	}

	in.Metrics.variantsIngested(nRead)
	in.Metrics.rowsSkipped(ReasonRepeatRegion, vr.RepeatSkipped)
	in.Metrics.rowsSkipped(ReasonMultiallelic, vr.MultiallelicSkipped)

	if vr.MultiallelicSkipped > 0 {
		in.log().WithFields(logrus.Fields{
			"file":  path,
			"count": vr.MultiallelicSkipped,
		}).Warnf("VCF file %s has %d multiploid positions. These will be ignored as bacterial haploid VCFs expected", path, vr.MultiallelicSkipped)
	}

	if len(collisions) > 0 {
		examples := collisions
		if len(examples) > maxCollisionExamples {
			examples = examples[:maxCollisionExamples]
		}
		in.log().WithFields(logrus.Fields{
			"file":     path,
			"count":    len(collisions),
			"examples": examples,
		}).Warnf("VCF file %s has %d variants whose reference base differs from an earlier sample. Likely result of SNP and INDEL at same site in different samples", path, len(collisions))
	}

	return nil
}
