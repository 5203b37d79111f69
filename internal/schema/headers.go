// Package schema maps arbitrary, aliased column names from uploaded files onto
// the canonical field schema for the two record kinds (inventory and sales).
package schema

import (
	"fmt"
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
)

// Canonical inventory column names (ERP export naming).
const (
	InvProductCode   = "c_articulo"
	InvName          = "c_descripcion"
	InvGroup         = "c_grupo"
	InvSubgroup      = "c_subgrupo"
	InvPeriod        = "f_periodo"
	InvPreviousStock = "n_saldo_anterior"
	InvStockIn       = "n_ingresos"
	InvStockOut      = "n_salidas"
	InvCurrentStock  = "n_saldo_actual"
	InvAverageCost   = "n_costo_promedio"
	InvLastCost      = "n_ultimo_costo"
	InvUnit          = "c_unidad"
)

// Canonical sales column names (report display naming).
const (
	SalSourceCode      = "FUENTE"
	SalDocumentNumber  = "NRO. COMPROBANTE"
	SalMovementType    = "TIPO MOVIMIENTO"
	SalDocumentDate    = "FECHA"
	SalCustomerName    = "CLIENTE"
	SalTaxID           = "RUC"
	SalPhone1          = "TELEFONO 1"
	SalPhone2          = "TELEFONO 2"
	SalSourceName      = "NOMBRE FUENTE"
	SalBrand           = "MARCA"
	SalProductCode     = "CODIGO"
	SalProductDetail   = "DETALLE"
	SalQuantity        = "CANTIDAD"
	SalUnitValue       = "V. UNITARIO"
	SalGrossValue      = "V. BRUTA"
	SalTax             = "IMPUESTO"
	SalDiscountAmount  = "DSCTO. VALOR"
	SalDiscountPercent = "DSCTO. %"
	SalNetValue        = "V. NETA"
	SalProductGroup    = "GRUPO"
	SalInventorySign   = "SIGNO"
	SalZone            = "ZONA"
	SalThirdPartyCode  = "COD. TERCERO"
	SalSalespersonName = "VENDEDOR"
)

// inventoryAliases maps each canonical inventory column to the raw header
// spellings seen across uploads. Lookup happens on normalized forms, so
// "N_SALDO_ACTUAL", "Saldo Actual" and "saldo-actual" all resolve the same.
var inventoryAliases = map[string][]string{
	InvProductCode:   {"codigo", "cod_articulo", "codigo_articulo", "articulo", "product_code", "sku", "item_code", "cod_producto"},
	InvName:          {"descripcion", "nombre", "detalle", "producto", "name", "product_name", "n_descripcion"},
	InvGroup:         {"grupo", "categoria", "linea", "group", "category"},
	InvSubgroup:      {"subgrupo", "subcategoria", "sublinea", "subgroup"},
	InvPeriod:        {"periodo", "fecha", "f_fecha", "mes", "period", "date"},
	InvPreviousStock: {"saldo_anterior", "stock_anterior", "inv_inicial", "saldo_inicial", "previous_stock"},
	InvStockIn:       {"ingresos", "entradas", "compras", "stock_in"},
	InvStockOut:      {"salidas", "egresos", "stock_out"},
	InvCurrentStock:  {"saldo_actual", "stock", "stock_actual", "existencia", "saldo", "current_stock"},
	InvAverageCost:   {"costo_promedio", "costo_prom", "avg_cost", "average_cost"},
	InvLastCost:      {"ultimo_costo", "costo_ultimo", "last_cost"},
	InvUnit:          {"unidad", "um", "u_m", "unit"},
}

var salesAliases = map[string][]string{
	SalSourceCode:      {"fuente", "cod_fuente", "source", "source_code"},
	SalDocumentNumber:  {"nro_comprobante", "comprobante", "documento", "nro_documento", "document_number"},
	SalMovementType:    {"tipo_movimiento", "movimiento", "tipo", "movement_type"},
	SalDocumentDate:    {"fecha", "fecha_doc", "f_emision", "date", "document_date"},
	SalCustomerName:    {"cliente", "nombre_cliente", "razon_social", "customer", "customer_name"},
	SalTaxID:           {"ruc", "nit", "cedula", "tax_id"},
	SalPhone1:          {"telefono_1", "telefono", "tel_1", "phone", "phone_1"},
	SalPhone2:          {"telefono_2", "tel_2", "celular", "phone_2"},
	SalSourceName:      {"nombre_fuente", "source_name"},
	SalBrand:           {"marca", "brand"},
	SalProductCode:     {"codigo", "cod_articulo", "c_articulo", "product_code", "sku"},
	SalProductDetail:   {"detalle", "descripcion", "producto", "product_detail"},
	SalQuantity:        {"cantidad", "cant", "qty", "quantity"},
	SalUnitValue:       {"v_unitario", "valor_unitario", "precio_unitario", "p_unit", "unit_value", "unit_price"},
	SalGrossValue:      {"v_bruta", "valor_bruto", "bruto", "subtotal", "gross", "gross_value"},
	SalTax:             {"impuesto", "iva", "tax"},
	SalDiscountAmount:  {"dscto_valor", "descuento", "discount", "discount_amount"},
	SalDiscountPercent: {"dscto", "dscto_pct", "porc_descuento", "discount_percent"},
	SalNetValue:        {"v_neta", "valor_neto", "neto", "net", "valor_total", "total", "net_value"},
	SalProductGroup:    {"grupo", "group", "product_group"},
	SalInventorySign:   {"signo", "sign"},
	SalZone:            {"zona", "zone"},
	SalThirdPartyCode:  {"cod_tercero", "tercero", "third_party_code"},
	SalSalespersonName: {"vendedor", "nombre_vendedor", "salesperson"},
}

// lookup tables from normalized header -> canonical name, built once at init.
var (
	inventoryLookup = buildLookup(inventoryAliases)
	salesLookup     = buildLookup(salesAliases)
)

func buildLookup(aliases map[string][]string) map[string]string {
	lookup := make(map[string]string, len(aliases)*4)
	for canonical, names := range aliases {
		// The canonical name resolves to itself, so mapping is idempotent.
		lookup[Normalize(canonical)] = canonical
		for _, name := range names {
			lookup[Normalize(name)] = canonical
		}
	}
	return lookup
}

// Normalize strips non-alphanumeric characters and lowercases a header so
// spacing, underscore and punctuation variants all compare equal.
func Normalize(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lookupFor(kind domain.RecordKind) map[string]string {
	if kind == domain.KindSales {
		return salesLookup
	}
	return inventoryLookup
}

// MapHeaders maps a raw header list onto canonical field names for the given
// record kind. Unrecognized headers pass through unchanged and are reported as
// warnings, never as failures. Mapping an already-canonical list is a no-op.
func MapHeaders(headers []string, kind domain.RecordKind) ([]string, []string) {
	lookup := lookupFor(kind)

	mapped := make([]string, len(headers))
	var warnings []string
	for i, h := range headers {
		if canonical, ok := lookup[Normalize(h)]; ok {
			mapped[i] = canonical
			continue
		}
		mapped[i] = h
		warnings = append(warnings, "unrecognized column "+strings.TrimSpace(h)+" passed through unmapped")
	}
	return mapped, warnings
}

// Canonical reports the canonical name a single header resolves to, if any.
func Canonical(header string, kind domain.RecordKind) (string, bool) {
	canonical, ok := lookupFor(kind)[Normalize(header)]
	return canonical, ok
}

// HasColumn reports whether any column of the row resolves to the canonical name.
func HasColumn(row domain.RawRow, canonical string, kind domain.RecordKind) bool {
	_, ok := ResolveCell(row, canonical, kind)
	return ok
}

// ResolveCell returns the cell whose column resolves to the canonical name.
// An exact key match wins; otherwise every key is normalized and checked
// against the alias table.
func ResolveCell(row domain.RawRow, canonical string, kind domain.RecordKind) (any, bool) {
	if v, ok := row[canonical]; ok {
		return v, true
	}
	lookup := lookupFor(kind)
	for key, v := range row {
		if mapped, ok := lookup[Normalize(key)]; ok && mapped == canonical {
			return v, true
		}
	}
	return nil, false
}

// ResolveString resolves a cell and renders it as a trimmed string.
func ResolveString(row domain.RawRow, canonical string, kind domain.RecordKind) string {
	v, ok := ResolveCell(row, canonical, kind)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
