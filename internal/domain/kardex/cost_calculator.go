package kardex

import "github.com/shopspring/decimal"

// AverageCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((SaldoAnterior * CostoActual) + (CantEntrada * CostoEntrada)) / (SaldoAnterior + CantEntrada)
// Si el saldo resultante es cero no hay existencias sobre las que promediar y se
// conserva el costo anterior.
func AverageCost(saldoAnterior int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := saldoAnterior + cantEntrada
	if sum <= 0 {
		return costoActual
	}
	num := decimal.NewFromInt(saldoAnterior).Mul(costoActual).
		Add(decimal.NewFromInt(cantEntrada).Mul(costoEntrada))
	return num.Div(decimal.NewFromInt(sum))
}
