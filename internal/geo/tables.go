package geo

// stateCentroids are approximate geographic centers of US states.
var stateCentroids = map[string]Coordinate{
	"AL": {32.806671, -86.791130},
	"AK": {61.370716, -152.404419},
	"AZ": {33.729759, -111.431221},
	"AR": {34.969704, -92.373123},
	"CA": {36.116203, -119.681564},
	"CO": {39.059811, -105.311104},
	"CT": {41.597782, -72.755371},
	"DE": {39.318523, -75.507141},
	"DC": {38.897438, -77.026817},
	"FL": {27.766279, -81.686783},
	"GA": {33.040619, -83.643074},
	"HI": {21.094318, -157.498337},
	"ID": {44.240459, -114.478828},
	"IL": {40.349457, -88.986137},
	"IN": {39.849426, -86.258278},
	"IA": {42.011539, -93.210526},
	"KS": {38.526600, -96.726486},
	"KY": {37.668140, -84.670067},
	"LA": {31.169546, -91.867805},
	"ME": {44.693947, -69.381927},
	"MD": {39.063946, -76.802101},
	"MA": {42.230171, -71.530106},
	"MI": {43.326618, -84.536095},
	"MN": {45.694454, -93.900192},
	"MS": {32.741646, -89.678696},
	"MO": {38.456085, -92.288368},
	"MT": {46.921925, -110.454353},
	"NE": {41.125370, -98.268082},
	"NV": {38.313515, -117.055374},
	"NH": {43.452492, -71.563896},
	"NJ": {40.298904, -74.521011},
	"NM": {34.840515, -106.248482},
	"NY": {42.165726, -74.948051},
	"NC": {35.630066, -79.806419},
	"ND": {47.528912, -99.784012},
	"OH": {40.388783, -82.764915},
	"OK": {35.565342, -96.928917},
	"OR": {44.572021, -122.070938},
	"PA": {40.590752, -77.209755},
	"RI": {41.680893, -71.511780},
	"SC": {33.856892, -80.945007},
	"SD": {44.299782, -99.438828},
	"TN": {35.747845, -86.692345},
	"TX": {31.054487, -97.563461},
	"UT": {40.150032, -111.862434},
	"VT": {44.045876, -72.710686},
	"VA": {37.769337, -78.169968},
	"WA": {47.400902, -121.490494},
	"WV": {38.491226, -80.954453},
	"WI": {44.268543, -89.616508},
	"WY": {42.755966, -107.302490},
}

// cityCoordinates is a curated list of major US cities keyed by exact name.
var cityCoordinates = map[string]Coordinate{
	"New York":         {40.712776, -74.005974},
	"Los Angeles":      {34.052235, -118.243683},
	"Chicago":          {41.878113, -87.629799},
	"Houston":          {29.760427, -95.369804},
	"Phoenix":          {33.448376, -112.074036},
	"Philadelphia":     {39.952583, -75.165222},
	"San Antonio":      {29.424122, -98.493629},
	"San Diego":        {32.715736, -117.161087},
	"Dallas":           {32.776665, -96.796989},
	"San Jose":         {37.338207, -121.886330},
	"Austin":           {30.267153, -97.743057},
	"Jacksonville":     {30.332184, -81.655647},
	"Fort Worth":       {32.755489, -97.330765},
	"Columbus":         {39.961178, -82.998795},
	"Charlotte":        {35.227085, -80.843124},
	"San Francisco":    {37.774929, -122.419418},
	"Indianapolis":     {39.768402, -86.158066},
	"Seattle":          {47.606209, -122.332069},
	"Denver":           {39.739235, -104.990250},
	"Washington":       {38.907192, -77.036873},
	"Boston":           {42.360081, -71.058884},
	"El Paso":          {31.761877, -106.485023},
	"Nashville":        {36.162663, -86.781601},
	"Detroit":          {42.331429, -83.045753},
	"Oklahoma City":    {35.467560, -97.516426},
	"Portland":         {45.515232, -122.678391},
	"Las Vegas":        {36.169941, -115.139832},
	"Memphis":          {35.149532, -90.048981},
	"Louisville":       {38.252666, -85.758453},
	"Baltimore":        {39.290386, -76.612190},
	"Milwaukee":        {43.038902, -87.906471},
	"Albuquerque":      {35.084385, -106.650421},
	"Tucson":           {32.222607, -110.974709},
	"Fresno":           {36.737797, -119.787125},
	"Sacramento":       {38.581573, -121.494400},
	"Kansas City":      {39.099728, -94.578568},
	"Atlanta":          {33.748997, -84.387985},
	"Miami":            {25.761681, -80.191788},
	"Raleigh":          {35.779591, -78.638176},
	"Omaha":            {41.256538, -95.934502},
	"Minneapolis":      {44.977753, -93.265015},
	"Tulsa":            {36.153980, -95.992775},
	"Cleveland":        {41.499321, -81.694359},
	"New Orleans":      {29.951065, -90.071533},
	"Tampa":            {27.950575, -82.457176},
	"Orlando":          {28.538336, -81.379234},
	"Pittsburgh":       {40.440624, -79.995888},
	"Cincinnati":       {39.103119, -84.512016},
	"St. Louis":        {38.627003, -90.199402},
	"Salt Lake City":   {40.760780, -111.891045},
	"Honolulu":         {21.306944, -157.858337},
	"Anchorage":        {61.218056, -149.900284},
	"Newark":           {40.735657, -74.172363},
	"Oakland":          {37.804363, -122.271111},
	"Long Beach":       {33.770050, -118.193739},
	"Richmond":         {37.540726, -77.436050},
	"Buffalo":          {42.886448, -78.878372},
	"Boise":            {43.615018, -116.202316},
	"Des Moines":       {41.586835, -93.625000},
	"Hartford":         {41.765804, -72.673370},
	"Providence":       {41.823990, -71.412834},
	"Charleston":       {32.776474, -79.931051},
	"Birmingham":       {33.518589, -86.810356},
	"Little Rock":      {34.746483, -92.289597},
	"San Juan":         {18.466333, -66.105721},
	"Riverside":        {33.953350, -117.396156},
	"Santa Ana":        {33.745472, -117.867653},
	"Anaheim":          {33.836594, -117.914299},
	"Irvine":           {33.684566, -117.826508},
	"Virginia Beach":   {36.852924, -75.977982},
	"Colorado Springs": {38.833881, -104.821365},
	"Arlington":        {32.735687, -97.108063},
}
