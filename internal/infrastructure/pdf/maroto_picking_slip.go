// Package pdf genera la hoja de preparación (picking slip) de un pedido asignado a bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega (código + nombre)  │  N° Pedido + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Activo (número de serie) | Verificado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del pedido + total de activos                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	approuting "github.com/jhoicas/refurb-inventory-api/internal/application/routing"
)

var _ approuting.PickingSlipGenerator = (*MarotoPickingSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPickingSlipGenerator implementa routing.PickingSlipGenerator usando Maroto v2.
type MarotoPickingSlipGenerator struct{}

// NewMarotoPickingSlipGenerator construye el generador.
func NewMarotoPickingSlipGenerator() *MarotoPickingSlipGenerator {
	return &MarotoPickingSlipGenerator{}
}

// GeneratePickingSlip genera el PDF y devuelve sus bytes.
func (g *MarotoPickingSlipGenerator) GeneratePickingSlip(slip approuting.PickingSlip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Picking slip "+slip.OrderID, true).
		WithAuthor(nonEmpty(slip.WarehouseCode, "refurb-inventory"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(assetRows(slip.AssetIDs)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega (izq) y N° pedido + fechas (der).
func headerRow(slip approuting.PickingSlip) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(slip.WarehouseName, slip.WarehouseCode), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Bodega %s (%s)", nonEmpty(slip.WarehouseCode, slip.WarehouseID), nonEmpty(slip.Country, "—")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE PREPARACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(slip.OrderID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Asignado: "+slip.AssignedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de activos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Activo (número de serie)", 8, align.Left),
		h("Verificado", 3, align.Center),
	)
}

// assetRows: una fila por activo reservado para el pedido.
func assetRows(assetIDs []string) []core.Row {
	rows := make([]core.Row, 0, len(assetIDs))
	for i, id := range assetIDs {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(id, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New("[   ]", props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return rows
}

// footerRow: QR con el N° de pedido para escanear en el muelle.
func footerRow(slip approuting.PickingSlip) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(slip.OrderID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New(fmt.Sprintf("Total de activos: %d", len(slip.AssetIDs)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New("Envío único desde esta bodega: no dividir el pedido.", props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New("Generado: "+slip.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Top: 20, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
