package budget

// Figures in £ million, from the published Northern Ireland budget
// documents.

type yearTotals struct {
	Year     string
	Total    float64
	Resource float64
	Capital  float64
}

var yearly = []yearTotals{
	{"2010", 11804.2, 10316.1, 1488.1},
	{"2011", 11520.4, 10329.1, 1191.3},
	{"2012", 11525.9, 10353.4, 1172.5},
	{"2013", 11548.7, 10431.9, 1116.8},
	{"2014", 11919.6, 10519.9, 1399.7},
	{"2015", 11293.8, 10176.1, 1117.7},
	{"2016", 11614, 10398, 1216},
	{"2017", 11845.1, 10612.8, 1232.3},
	{"2018", 12204.7, 10780.4, 1424.3},
	{"2019", 12741.6, 11351.5, 1390.1},
	{"2020", 13746.4, 12196.9, 1549.5},
	{"2021", 14782.5, 13001.5, 1781},
	{"2022", 16323.341, 14269.097, 2054.244},
	{"2023", 16451.684, 14211.967, 2239.717},
	{"2024", 17255.6, 15168.2, 2087.4},
	{"2025", 19085, 16639.4, 2445.6},
}

var departments = []string{
	"Agriculture, Environment and Rural Affairs",
	"Communities",
	"Economy",
	"Education",
	"Finance and Personnel",
	"Health, Social Services and Public Safety",
	"Infrastructure",
	"Justice",
	"Office of the First Minister and Deputy First Minister",
	"Other",
}

// departmentSplit holds per-department figures in the order of departments.
type departmentSplit struct {
	Resource []float64
	Capital  []float64
}

var byDepartment = map[string]departmentSplit{
	"2010": {
		Resource: []float64{354.5, 1038.4, 798.9, 1914.8, 182.9, 4302.9, 312.8, 1223.7, 80.2, 107},
		Capital:  []float64{0, 825.8, 37.6, 169.3, 15.2, 201.7, 133.4, 80, 12, 13.1},
	},
	"2011": {
		Resource: []float64{347.1, 1013.7, 787.3, 1894.6, 188.6, 4383.1, 319.2, 1213.1, 78.6, 103.8},
		Capital:  []float64{26.3, 614.4, 41.2, 114.7, 18.9, 200.5, 85, 78.3, 11.2, 0.8},
	},
	"2012": {
		Resource: []float64{354.4, 1020.7, 780.3, 1876.1, 185.3, 4447.6, 319, 1189, 80, 101},
		Capital:  []float64{25.5, 558, 32.3, 103.4, 14.6, 279.8, 80.3, 64.5, 10.1, 4},
	},
	"2013": {
		Resource: []float64{341.2, 1000.5, 798.5, 1887.7, 180.7, 4569.2, 310.7, 1166.7, 77, 99.7},
		Capital:  []float64{26.6, 654.8, 18.5, 107.7, 10.6, 187.5, 45.7, 51.8, 10.8, 2.8},
	},
	"2014": {
		Resource: []float64{339.6, 980.9, 826.7, 1874.5, 181.2, 4659.4, 309.8, 1176.4, 73.7, 97.7},
		Capital:  []float64{37.2, 733.5, 28.3, 183.4, 28.4, 183, 106.8, 82, 15.9, 1.2},
	},
	"2015": {
		Resource: []float64{294.1, 924.2, 707.9, 1914.2, 141.2, 4697.9, 294.5, 1044.7, 67.9, 89.5},
		Capital:  []float64{92.4, 452.7, 33.2, 146.8, 23, 213.4, 53.4, 95.9, 4.2, 2.7},
	},
	"2016": {
		Resource: []float64{197.9, 871.2, 790, 1947.5, 140.1, 4880.1, 372.8, 1050.5, 59.1, 88.8},
		Capital:  []float64{48.8, 159.7, 90.9, 193.7, 33.6, 232.6, 384.1, 58, 11, 3.6},
	},
	"2017": {
		Resource: []float64{192, 872.7, 770.7, 1904.1, 155.1, 5144.8, 375.1, 1033.7, 77.6, 87},
		Capital:  []float64{36.9, 125.4, 62, 172.6, 30.6, 217.1, 414.3, 51.2, 120.4, 1.8},
	},
	"2018": {
		Resource: []float64{194.1, 900.2, 763.3, 1939.4, 136.6, 5306.2, 370.2, 1029.5, 55.3, 85.6},
		Capital:  []float64{76.6, 179.3, 93.7, 164.6, 27.3, 237.9, 501.2, 87.1, 54.5, 2.1},
	},
	"2019": {
		Resource: []float64{203.1, 873.9, 776.7, 2037.7, 155.5, 5701.1, 384.4, 1077.4, 57.3, 84.4},
		Capital:  []float64{86, 179.1, 82.4, 152.7, 35.3, 280.6, 469, 76.2, 25.3, 3.5},
	},
	"2020": {
		Resource: []float64{226.1, 823.8, 817.7, 2276.1, 168.6, 6158.4, 417.9, 1111.2, 98, 99.1},
		Capital:  []float64{98.5, 214.1, 86.1, 157.3, 31.9, 295, 558.2, 88.1, 18.1, 2.2},
	},
	"2021": {
		Resource: []float64{553.8, 876.3, 821.3, 2345.1, 172.1, 6451.9, 429.9, 1125.3, 120.5, 105.3},
		Capital:  []float64{95.5, 224.8, 89.8, 158.3, 45, 326.5, 722.5, 96.4, 15.3, 6.9},
	},
	"2022": {
		Resource: []float64{564.172, 848.314, 781.8, 2642.89, 178.698, 7280.14, 521.238, 1184.16, 156.776, 110.902},
		Capital:  []float64{82.429, 233.505, 243.531, 211.832, 32.292, 358.133, 796.425, 79.119, 10.397, 6.581},
	},
	"2023": {
		Resource: []float64{579.775, 861.619, 771.994, 2576.51, 147.453, 7300.9, 523.429, 1156.67, 181.842, 111.781},
		Capital:  []float64{115.669, 216.056, 245.857, 218.618, 37.908, 468.62, 792.422, 128.764, 11.983, 3.82},
	},
	"2024": {
		Resource: []float64{577.3, 856, 766.6, 2874.4, 208.1, 7759.8, 559.5, 1262.5, 183.2, 120.8},
		Capital:  []float64{95, 133.4, 221.9, 254.3, 38.9, 416.8, 820.1, 91.9, 10.5, 4.6},
	},
	"2025": {
		Resource: []float64{598.9, 938.2, 801.4, 3227.8, 240.1, 8409.9, 638.2, 1415.3, 240.1, 129.5},
		Capital:  []float64{119.5, 270, 205.4, 388.4, 32.5, 391, 917, 100, 14, 7.8},
	},
}
