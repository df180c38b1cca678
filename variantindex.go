package genosnp

import (
	"fmt"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// VariantIndex is a SQL store of the defining variants of a genotype
// collection, queryable by region.
type VariantIndex struct {
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

// IndexedVariant conforms to the rows of the "DefiningVariant" table, and can
// be easily parsed with sqlx. Position is 0-based.
type IndexedVariant struct {
	Genotype      string `db:"genotype"`
	Contig        string `db:"contig"`
	Position      int    `db:"position"`
	Ref           string `db:"ref"`
	Alt           string `db:"alt"`
	Allele        string `db:"allele"`
	Depth         int    `db:"depth"`
	PassesFilters bool   `db:"passes_filters"`
	Kind          string `db:"kind"`
}

// IndexMetadata conforms to the single row of the "Metadata" table.
type IndexMetadata struct {
	Genotypes         int  `db:"genotypes"`
	Variants          int  `db:"variants"`
	IndexCreationTime Time `db:"index_creation_time"`
}

const createVariantIndexSchema = `
DROP TABLE IF EXISTS DefiningVariant;
DROP TABLE IF EXISTS Metadata;
CREATE TABLE DefiningVariant (
	genotype TEXT NOT NULL,
	contig TEXT NOT NULL,
	position INTEGER NOT NULL,
	ref TEXT NOT NULL,
	alt TEXT NOT NULL,
	allele TEXT NOT NULL,
	depth INTEGER NOT NULL,
	passes_filters INTEGER NOT NULL,
	kind TEXT NOT NULL
);
CREATE INDEX defining_variant_region ON DefiningVariant (contig, position);
CREATE TABLE Metadata (
	genotypes INTEGER NOT NULL,
	variants INTEGER NOT NULL,
	index_creation_time BIGINT NOT NULL
);
`

// OpenVariantIndex opens, or creates, a SQLite variant index at path.
func OpenVariantIndex(path string) (*VariantIndex, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return newVariantIndex(db), nil
}

// OpenVariantIndexDSN opens a variant index through any registered
// database/sql driver, e.g. "pgx" for PostgreSQL.
func OpenVariantIndexDSN(driver, dsn string) (*VariantIndex, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return newVariantIndex(db), nil
}

func newVariantIndex(db *sqlx.DB) *VariantIndex {
	idx := &VariantIndex{DB: db, Metadata: &IndexMetadata{}}

	// A fresh index has no metadata yet; ignore any error
	_ = idx.DB.Get(idx.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return idx
}

func (idx *VariantIndex) Close() error {
	return idx.DB.Close()
}

// Write replaces the contents of the index with one row per genotype and
// defining variant of gts.
func (idx *VariantIndex) Write(gts *Genotypes) error {
	tx, err := idx.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(createVariantIndexSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return pfx.Err(fmt.Errorf("unable to create schema: %w", err))
		}
	}

	insert := tx.Rebind(`INSERT INTO DefiningVariant
	(genotype, contig, position, ref, alt, allele, depth, passes_filters, kind)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	rows := 0
	for _, g := range gts.List {
		for _, v := range g.DefiningVariants() {
			allele, err := g.Allele(v)
			if err != nil {
				return err
			}
			depth, err := g.Depth(v)
			if err != nil {
				return err
			}
			kind := KindGenotype
			if v.IsSpeciesVariant() {
				kind = KindSpecies
			}
			passes := 0
			if v.PassesFilters {
				passes = 1
			}

			if _, err := tx.Exec(insert, g.Name, v.Contig, v.Position, v.Ref, v.Alt, allele, depth, passes, kind); err != nil {
				return pfx.Err(err)
			}
			rows++
		}
	}

	meta := &IndexMetadata{
		Genotypes:         gts.Len(),
		Variants:          rows,
		IndexCreationTime: Time(time.Now().Truncate(time.Second)),
	}
	if _, err := tx.Exec(tx.Rebind("INSERT INTO Metadata (genotypes, variants, index_creation_time) VALUES (?, ?, ?)"),
		meta.Genotypes, meta.Variants, time.Time(meta.IndexCreationTime).Unix()); err != nil {
		return pfx.Err(err)
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	idx.Metadata = meta

	return nil
}

// Region returns the indexed rows on contig with 0-based position in
// [start, end), ordered by position.
func (idx *VariantIndex) Region(contig string, start, end int) ([]IndexedVariant, error) {
	var out []IndexedVariant
	err := idx.DB.Select(&out, idx.DB.Rebind(`SELECT * FROM DefiningVariant
	WHERE contig = ? AND position >= ? AND position < ?
	ORDER BY position, alt, genotype`), contig, start, end)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}
