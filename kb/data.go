package kb

var genericSpecs = map[string]string{
	"Engine":       "Petrol engine",
	"Power":        "N/A",
	"Torque":       "N/A",
	"0-60 mph":     "N/A",
	"Top speed":    "N/A",
	"Drive":        "N/A",
	"Transmission": "Automatic",
}

var builtin = []Entry{
	{Make: "Audi", Model: "TT RS", Attributes: map[string]string{
		"Engine":       "2.5 TFSI 5-cylinder",
		"Displacement": "2,480 cc",
		"Power":        "400 hp",
		"Torque":       "354 lb-ft",
		"0-60 mph":     "3.6 s",
		"Top speed":    "174 mph",
		"Drive":        "Quattro AWD",
		"Transmission": "7-speed S tronic",
	}},
	{Make: "Audi", Model: "R8", Attributes: map[string]string{
		"Engine":       "5.2 FSI V10",
		"Displacement": "5,204 cc",
		"Power":        "602 hp",
		"Torque":       "413 lb-ft",
		"0-60 mph":     "3.1 s",
		"Top speed":    "205 mph",
		"Drive":        "Quattro AWD",
		"Transmission": "7-speed S tronic",
	}},
	{Make: "BMW", Model: "M3", Attributes: map[string]string{
		"Engine":       "3.0 twin-turbo inline-6 (S58)",
		"Displacement": "2,993 cc",
		"Power":        "503 hp",
		"Torque":       "479 lb-ft",
		"0-60 mph":     "3.4 s",
		"Top speed":    "180 mph",
		"Drive":        "M xDrive AWD",
		"Transmission": "8-speed M Steptronic",
	}},
	{Make: "Porsche", Model: "911 Turbo", Attributes: map[string]string{
		"Engine":       "3.7 twin-turbo flat-6",
		"Displacement": "3,745 cc",
		"Power":        "572 hp",
		"Torque":       "553 lb-ft",
		"0-60 mph":     "2.7 s",
		"Top speed":    "198 mph",
		"Drive":        "AWD",
		"Transmission": "8-speed PDK",
	}},
	{Make: "Porsche", Model: "911 Turbo S", Attributes: map[string]string{
		"Engine":       "3.7 twin-turbo flat-6",
		"Displacement": "3,745 cc",
		"Power":        "640 hp",
		"Torque":       "590 lb-ft",
		"0-60 mph":     "2.6 s",
		"Top speed":    "205 mph",
		"Drive":        "AWD",
		"Transmission": "8-speed PDK",
	}},
	{Make: "Mercedes-Benz", Model: "AMG GT", Attributes: map[string]string{
		"Engine":       "4.0 V8 biturbo",
		"Displacement": "3,982 cc",
		"Power":        "550 hp",
		"Torque":       "502 lb-ft",
		"0-60 mph":     "3.6 s",
		"Top speed":    "196 mph",
		"Drive":        "RWD",
		"Transmission": "7-speed AMG Speedshift DCT",
	}},
	{Make: "Nissan", Model: "GT-R Nismo", Attributes: map[string]string{
		"Engine":       "3.8 twin-turbo V6 (VR38DETT)",
		"Displacement": "3,799 cc",
		"Power":        "600 hp",
		"Torque":       "481 lb-ft",
		"0-60 mph":     "2.9 s",
		"Top speed":    "196 mph",
		"Drive":        "ATTESA E-TS AWD",
		"Transmission": "6-speed dual-clutch",
	}},
	{Make: "Chevrolet", Model: "Corvette Stingray", Attributes: map[string]string{
		"Engine":       "6.2 V8 (LT2)",
		"Displacement": "6,162 cc",
		"Power":        "495 hp",
		"Torque":       "470 lb-ft",
		"0-60 mph":     "2.9 s",
		"Top speed":    "194 mph",
		"Drive":        "RWD",
		"Transmission": "8-speed dual-clutch",
	}},
	{Make: "Toyota", Model: "GR Supra", Attributes: map[string]string{
		"Engine":       "3.0 turbo inline-6",
		"Displacement": "2,998 cc",
		"Power":        "382 hp",
		"Torque":       "368 lb-ft",
		"0-60 mph":     "3.9 s",
		"Top speed":    "155 mph",
		"Drive":        "RWD",
		"Transmission": "8-speed automatic",
	}},
}
