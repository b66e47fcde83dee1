package models

// Política ante una conversión de unidades inexistente.
const (
	MissingConversionAssumeUnity = "asumir-unidad" // factor 1 + aviso
	MissingConversionFail        = "fallar"
)

// Settings - configuración del negocio. Vive dentro del documento para que
// exportar/importar la lleve consigo.
type Settings struct {
	CatauroCommissionPct float64 `json:"comision_catauro"`
	MandadoCommissionPct float64 `json:"comision_mandado"`
	CurrencySymbol       string  `json:"simbolo_moneda"`
	DefaultPaymentState  string  `json:"estado_pago_defecto"`
	OnMissingConversion  string  `json:"si_falta_conversion"`
	ConversionsSeeded    bool    `json:"conversiones_sembradas"`
}

func DefaultSettings() Settings {
	return Settings{
		CatauroCommissionPct: 0.10,
		MandadoCommissionPct: 0.10,
		CurrencySymbol:       "CUP",
		DefaultPaymentState:  string(PaymentPaid),
		OnMissingConversion:  MissingConversionAssumeUnity,
	}
}
