// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package transform

// Number of terms of a cubic rational polynomial in three variables
const NumTerms = 20

// Positions of the linear terms L, P, H in the basis
const (
	termL = 1
	termP = 2
	termH = 3
)

// Evaluates the RPC polynomial basis for normalized longitude l, latitude p and height h,
// in the order 1, L, P, H, LP, LH, PH, L², P², H², LPH, L³, LP², LH², L²P, P³, PH², L²H, P²H, H³
func rpcBasis(b *[NumTerms]float64, l, p, h float64) {
	b[0] =1
	b[1] =l
	b[2] =p
	b[3] =h
	b[4] =l*p
	b[5] =l*h
	b[6] =p*h
	b[7] =l*l
	b[8] =p*p
	b[9] =h*h
	b[10]=l*p*h
	b[11]=l*l*l
	b[12]=l*p*p
	b[13]=l*h*h
	b[14]=l*l*p
	b[15]=p*p*p
	b[16]=p*h*h
	b[17]=l*l*h
	b[18]=p*p*h
	b[19]=h*h*h
}

// Inner product of coefficients and basis
func dot20(c *[NumTerms]float64, b *[NumTerms]float64) (sum float64) {
	for i:=0; i<NumTerms; i++ {
		sum+=c[i]*b[i]
	}
	return sum
}
