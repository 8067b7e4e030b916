// seed_catalog genera un script SQL para cargar bodegas, categorías y productos de una
// empresa a partir de un CSV separado por punto y coma.
//
// Uso: go run ./cmd/seed_catalog -company <uuid> [-latin1] [-out seed_catalog.sql] catalogo.csv
//
// Formato de cada fila:
//
//	BODEGA;<código>;<nombre>;<dirección>
//	CATEGORIA;<código>;<nombre>
//	PRODUCTO;<código>;<nombre>;<código categoría>;<stock mínimo>
//
// Las filas que empiezan con # se ignoran. Los códigos se normalizan igual que en la API.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/traslados-api/pkg/codes"
)

type warehouseRow struct{ code, name, address string }

type categoryRow struct{ code, name string }

type productRow struct {
	code, name, categoryCode string
	minStock                 int64
}

type catalog struct {
	warehouses []warehouseRow
	categories []categoryRow
	products   []productRow
}

func main() {
	companyID := flag.String("company", "", "UUID de la empresa")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	outPath := flag.String("out", "seed_catalog.sql", "archivo SQL de salida")
	flag.Parse()

	if _, err := uuid.Parse(*companyID); err != nil {
		fmt.Fprintf(os.Stderr, "-company debe ser un UUID: %v\n", err)
		os.Exit(2)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog -company <uuid> [-latin1] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	cat, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, *companyID, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d bodegas, %d categorías, %d productos\n",
		*outPath, len(cat.warehouses), len(cat.categories), len(cat.products))
}

func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cat := &catalog{}
	categories := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if len(rec) < 3 || rec[1] == "" || rec[2] == "" {
			return nil, fmt.Errorf("línea %d: se esperan al menos tipo, código y nombre", line)
		}
		code := codes.Normalize(rec[1])
		switch strings.ToUpper(rec[0]) {
		case "BODEGA":
			cat.warehouses = append(cat.warehouses, warehouseRow{code: code, name: rec[2], address: field(rec, 3)})
		case "CATEGORIA":
			categories[code] = true
			cat.categories = append(cat.categories, categoryRow{code: code, name: rec[2]})
		case "PRODUCTO":
			p := productRow{code: code, name: rec[2], categoryCode: codes.Normalize(field(rec, 3))}
			if raw := field(rec, 4); raw != "" {
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("línea %d: stock mínimo inválido %q", line, raw)
				}
				p.minStock = n
			}
			cat.products = append(cat.products, p)
		default:
			return nil, fmt.Errorf("línea %d: tipo desconocido %q", line, rec[0])
		}
	}
	for _, p := range cat.products {
		if p.categoryCode != "" && !categories[p.categoryCode] {
			return nil, fmt.Errorf("producto %s: categoría %s no definida en el archivo", p.code, p.categoryCode)
		}
	}
	return cat, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// writeSQL emite inserciones idempotentes: filas con código ya existente se omiten.
func writeSQL(w io.Writer, companyID string, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial generado por seed_catalog\n")
	b.WriteString("BEGIN;\n\n")

	b.WriteString("-- 1. Bodegas\n")
	for _, wh := range cat.warehouses {
		fmt.Fprintf(&b, "INSERT INTO warehouses (id, company_id, code, name, address) VALUES ('%s', '%s', '%s', '%s', '%s')\n",
			uuid.NewString(), companyID, escapeSQL(wh.code), escapeSQL(wh.name), escapeSQL(wh.address))
		b.WriteString("ON CONFLICT (company_id, code) WHERE active DO NOTHING;\n")
	}

	b.WriteString("\n-- 2. Categorías\n")
	for _, c := range cat.categories {
		fmt.Fprintf(&b, "INSERT INTO categories (id, company_id, code, name) VALUES ('%s', '%s', '%s', '%s')\n",
			uuid.NewString(), companyID, escapeSQL(c.code), escapeSQL(c.name))
		b.WriteString("ON CONFLICT (company_id, code) DO NOTHING;\n")
	}

	b.WriteString("\n-- 3. Productos (categoría por código)\n")
	for _, p := range cat.products {
		category := "NULL"
		if p.categoryCode != "" {
			category = fmt.Sprintf("(SELECT id FROM categories WHERE company_id = '%s' AND code = '%s')",
				companyID, escapeSQL(p.categoryCode))
		}
		fmt.Fprintf(&b, "INSERT INTO products (id, company_id, code, name, category_id, min_stock) VALUES ('%s', '%s', '%s', '%s', %s, %d)\n",
			uuid.NewString(), companyID, escapeSQL(p.code), escapeSQL(p.name), category, p.minStock)
		b.WriteString("ON CONFLICT (company_id, code) WHERE active DO NOTHING;\n")
	}

	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
